package log

import (
	"io"

	"github.com/fxamacker/cbor/v2"
)

// Run records are encoded deterministically so that two identical runs
// produce identical report bytes apart from the run ID and timestamp.
var (
	eventEnc = mustEncMode()
	eventDec = mustDecMode()
)

func mustEncMode() cbor.EncMode {
	opts := cbor.CoreDetEncOptions()
	opts.Time = cbor.TimeRFC3339Nano
	opts.NilContainers = cbor.NilContainerAsNull
	em, err := opts.EncMode()
	if err != nil {
		panic("log: run record encoder: " + err.Error())
	}
	return em
}

func mustDecMode() cbor.DecMode {
	// Unknown keys are ignored so older tools can read newer reports.
	dm, err := cbor.DecOptions{
		DupMapKey:       cbor.DupMapKeyEnforcedAPF,
		IndefLength:     cbor.IndefLengthForbidden,
		MaxNestedLevels: 8,
	}.DecMode()
	if err != nil {
		panic("log: run record decoder: " + err.Error())
	}
	return dm
}

// EncodeEvent encodes a run record.
func EncodeEvent(event Event) ([]byte, error) {
	return eventEnc.Marshal(event)
}

// DecodeEvent decodes a single run record.
func DecodeEvent(data []byte) (Event, error) {
	var event Event
	err := eventDec.Unmarshal(data, &event)
	return event, err
}

// NewEncoder returns an encoder writing a stream of run records to w.
func NewEncoder(w io.Writer) *cbor.Encoder {
	return eventEnc.NewEncoder(w)
}

// NewDecoder returns a decoder reading a stream of run records from r.
func NewDecoder(r io.Reader) *cbor.Decoder {
	return eventDec.NewDecoder(r)
}
