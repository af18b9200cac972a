package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/factorysim/mfg-telemetry-g/adapters/controller"
	"github.com/factorysim/mfg-telemetry-g/adapters/gateway/display"
	event_hub "github.com/factorysim/mfg-telemetry-g/adapters/gateway/event-hub"
	"github.com/factorysim/mfg-telemetry-g/adapters/gateway/mqtt"
	"github.com/factorysim/mfg-telemetry-g/adapters/gateway/parquet"
	"github.com/factorysim/mfg-telemetry-g/adapters/gateway/rabbitmq"
	"github.com/factorysim/mfg-telemetry-g/adapters/gateway/sqlite"
	"github.com/factorysim/mfg-telemetry-g/model"
	"github.com/factorysim/mfg-telemetry-g/service"
)

type Config struct {
	LogLevel                    int `yaml:"LogLevel"`
	event_hub.EventHubConfig    `yaml:"EventHubConfig"`
	controller.ControllerConfig `yaml:"ControllerConfig"`
	rabbitmq.RabbitMQConfig     `yaml:"RabbitConfig"`
	mqtt.MqttConf               `yaml:"MqttConfig"`
	sqlite.SqliteConfig         `yaml:"SqliteConfig"`
	parquet.ParquetConfig       `yaml:"ParquetConfig"`
}

var (
	configFile  string
	gatewayName string
	seed        int64
)

var rootCmd = &cobra.Command{
	Use:   "mfg-telemetry-g",
	Short: "Synthetic manufacturing telemetry generator",
	Long: "Generates plausible sensor readings (vibration, temperature, humidity, speed)\n" +
		"for a set of assets and forwards them to a configurable gateway.",
	RunE: run,
}

func init() {
	rootCmd.Flags().StringVarP(&configFile, "config", "c", "config.yaml", "path to the yaml configuration file")
	rootCmd.Flags().StringVarP(&gatewayName, "gateway", "g", "display", "event sink: display|rabbitmq|eventhub|mqtt|sqlite|parquet")
	rootCmd.Flags().Int64Var(&seed, "seed", 0, "random seed for reproducible runs (0 = seed from clock)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(2)
	}
}

func run(cmd *cobra.Command, args []string) error {
	var (
		conf   Config
		svr    controller.Controller
		svc    model.IService
		gtw    model.IGateway
		ctx    context.Context
		cancel context.CancelFunc
		sig    chan os.Signal
		wg     *sync.WaitGroup
		err    error
	)

	conf = openConfigFile(configFile)

	wg = &sync.WaitGroup{}
	ctx, cancel = context.WithCancel(context.Background())
	defer cancel()

	switch gatewayName {
	case "display":
		gtw = display.NewDisplay()
	case "rabbitmq":
		rabbit := rabbitmq.NewRabbitMQ(conf.RabbitMQConfig)
		rabbit.Start(ctx, wg)
		gtw = rabbit
	case "eventhub":
		gtw, err = event_hub.NewEventHub(ctx, wg, conf.EventHubConfig)
	case "mqtt":
		gtw, err = mqtt.NewMqtt(conf.MqttConf, conf.LogLevel, ctx, wg)
	case "sqlite":
		gtw, err = sqlite.NewSqlite(ctx, wg, conf.SqliteConfig)
	case "parquet":
		gtw, err = parquet.NewParquet(ctx, wg, conf.ParquetConfig)
	default:
		return fmt.Errorf("unknown gateway %q", gatewayName)
	}
	if err != nil {
		return err
	}

	svc = service.NewService(gtw, seed)

	svr = controller.NewController(conf.ControllerConfig, svc)

	svr.Start(ctx, wg)

	sig = make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sig
		cancel()
	}()
	wg.Wait()
	return nil
}

func openConfigFile(s string) Config {
	if s == "" {
		s = "config.yaml"
	}

	f, err := os.Open(s)
	if err != nil {
		processError(errors.Join(err, errors.New("open config.yaml file")))
	}
	defer f.Close()

	var config Config
	decoder := yaml.NewDecoder(f)
	err = decoder.Decode(&config)
	if err != nil {
		processError(err)
	}
	return config

}

func processError(err error) {
	fmt.Println(err)
	os.Exit(2)
}
