package core

import (
	"fmt"

	"github.com/tsawler/menudoc/internal/filters"
)

// NewStream returns an unfiltered stream
func NewStream(dict Dict, data []byte) *Stream {
	if dict == nil {
		dict = Dict{}
	}
	return &Stream{Dict: dict, Data: data}
}

// NewFlateStream compresses data with FlateDecode, recording the predictor
// parameters in DecodeParms when p uses one
func NewFlateStream(dict Dict, data []byte, p filters.Params) (*Stream, error) {
	encoded, err := filters.FlateEncode(data, p)
	if err != nil {
		return nil, err
	}
	s := NewStream(dict, encoded)
	s.Dict["Filter"] = Name("FlateDecode")
	if parms := p.Dict(); parms != nil {
		d := Dict{}
		for k, v := range parms {
			d[k] = Int(v)
		}
		s.Dict["DecodeParms"] = d
	}
	return s, nil
}

// Decode returns the stream data with its filter removed. Streams in
// formats that are drawn as stored, such as DCTDecode, are returned as is.
func (s *Stream) Decode() ([]byte, error) {
	filter, ok := s.Dict.GetName("Filter")
	if !ok {
		if s.Dict.Has("Filter") {
			return nil, fmt.Errorf("invalid Filter type: %T", s.Dict.Get("Filter"))
		}
		return s.Data, nil
	}

	switch filter {
	case "FlateDecode", "Fl":
		return filters.FlateDecode(s.Data, decodeParams(s.Dict))
	case "DCTDecode", "DCT":
		return s.Data, nil
	default:
		return nil, fmt.Errorf("unknown filter: %s", filter)
	}
}

// decodeParams reads the predictor entries of DecodeParms
func decodeParams(d Dict) filters.Params {
	parms, ok := d.GetDict("DecodeParms")
	if !ok {
		return filters.Params{}
	}
	get := func(key string, def int) int {
		if v, ok := parms.GetInt(key); ok {
			return int(v)
		}
		return def
	}
	return filters.Params{
		Predictor: get("Predictor", filters.PredictorNone),
		Columns:   get("Columns", 1),
		Colors:    get("Colors", 1),
	}
}
