package record

import (
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"

	"holdem-hu/holdem"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// MarshalJSON encodes a record with snake_case keys; cards, streets and
// action types are written as text.
func MarshalJSON(rec holdem.HandRecord) ([]byte, error) {
	data, err := json.Marshal(rec)
	if err != nil {
		return nil, errors.Wrapf(err, "encoding hand %s", rec.HandID)
	}
	return data, nil
}

func MarshalJSONIndent(rec holdem.HandRecord) ([]byte, error) {
	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return nil, errors.Wrapf(err, "encoding hand %s", rec.HandID)
	}
	return data, nil
}

func UnmarshalJSON(data []byte) (holdem.HandRecord, error) {
	var rec holdem.HandRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return holdem.HandRecord{}, errors.Wrap(err, "decoding hand record")
	}
	if !holdem.ValidHandID(rec.HandID) {
		return holdem.HandRecord{}, errors.Errorf("decoded record has malformed hand id %q", rec.HandID)
	}
	return rec, nil
}
