package event_hub

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"sync"

	"github.com/Azure/azure-sdk-for-go/sdk/messaging/azeventhubs"

	"github.com/factorysim/mfg-telemetry-g/model"
)

// connection string can have the event hub name like this
// Endpoint=sb://<namespace>.servicebus.windows.net/;SharedAccessKeyName=<KeyName>;SharedAccessKey=<KeyValue>;EntityPath=mfg-telemetry
// see https://learn.microsoft.com/en-us/azure/event-hubs/event-hubs-get-connection-string

type EventHubConfig struct {
	Connection   string `yaml:"connection"`
	EventHubName string `yaml:"EventHubName"`
}

type EventHub struct {
	producerClient *azeventhubs.ProducerClient
}

func NewEventHub(ctx context.Context, wg *sync.WaitGroup, conf EventHubConfig) (*EventHub, error) {
	var (
		err            error
		producerClient *azeventhubs.ProducerClient
	)
	producerClient, err = azeventhubs.NewProducerClientFromConnectionString(conf.Connection, conf.EventHubName, nil)

	if err != nil {
		return nil, errors.Join(err, errors.New("failed to create producer client"))
	}

	wg.Add(1)
	go func() {
		<-ctx.Done()
		err = producerClient.Close(ctx)
		if err != nil {
			log.Printf("failed to close producer client: %s", err)
		}
		wg.Done()
	}()

	return &EventHub{
		producerClient: producerClient,
	}, nil
}

func (e EventHub) SendEvents(events model.Events) error {
	var (
		buf             []byte
		err             error
		msg             *azeventhubs.EventData
		newBatchOptions *azeventhubs.EventDataBatchOptions
	)

	buf, err = json.Marshal(events)
	if err != nil {
		return errors.Join(err, errors.New("failed to marshal event event_hub.SendEvents"))
	}

	// Leaving both PartitionID and PartitionKey nil lets the service choose
	// a partition.
	newBatchOptions = &azeventhubs.EventDataBatchOptions{}

	// An EventDataBatch packs multiple events together for efficient
	// transfer.
	batch, err := e.producerClient.NewEventDataBatch(context.TODO(), newBatchOptions)
	if err != nil {
		return errors.Join(err, errors.New("failed to create event data batch"))
	}

	msg = &azeventhubs.EventData{
		Body: buf,
	}

retry:
	err = batch.AddEventData(msg, nil)

	if errors.Is(err, azeventhubs.ErrEventDataTooLarge) {
		if batch.NumEvents() == 0 {
			// This one event is too large for a batch even on its own; it
			// will not be sendable at its current size.
			return errors.Join(err, errors.New("failed to send events: event is too large"))
		}

		// The batch is full. Send it, start a new one with the same
		// options, and retry this event.
		if err = e.producerClient.SendEventDataBatch(context.TODO(), batch, nil); err != nil {
			return errors.Join(err, errors.New("failed to send events: couldn't send the batch"))
		}

		tmpBatch, err := e.producerClient.NewEventDataBatch(context.TODO(), newBatchOptions)

		if err != nil {
			return errors.Join(err, errors.New("failed to send events: couldn't create a new batch"))
		}

		batch = tmpBatch

		goto retry
	} else if err != nil {
		return errors.Join(err, errors.New("failed to send events"))
	}

	if batch.NumEvents() > 0 {
		if err := e.producerClient.SendEventDataBatch(context.TODO(), batch, nil); err != nil {
			return errors.Join(err, errors.New("failed to send events: couldn't send the batch"))
		}
	}

	return nil
}
