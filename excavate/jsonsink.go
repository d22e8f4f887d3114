package excavate

import (
	"encoding/json"
	"io"
)

// JSONSink writes each Line as one JSON object per line (NDJSON):
//
//	{"kind":"node","depth":1,"name":"Description","id":272}
//	{"kind":"value","depth":1,"name":"version","value":"12.0","id":392}
type JSONSink struct {
	enc *json.Encoder
}

func NewJSONSink(w io.Writer) *JSONSink {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	return &JSONSink{enc: enc}
}

func (j *JSONSink) Emit(l Line) error {
	return j.enc.Encode(l)
}
