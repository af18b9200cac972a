package display

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/factorysim/mfg-telemetry-g/model"
)

type Display struct{}

func NewDisplay() Display {
	return Display{}
}

func (d Display) SendEvents(events model.Events) error {
	var (
		buf []byte
		err error
	)

	buf, err = json.Marshal(events)
	if err != nil {
		return errors.Join(err, errors.New("failed to marshal event display.SendEvents"))
	}
	display(string(buf))

	return nil
}

func display(text string) {
	fmt.Println(text)
}
