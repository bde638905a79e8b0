package api

// dateTimeFormat is used for RFC3339 timestamps in API payloads.
const dateTimeFormat = "2006-01-02T15:04:05.000Z07:00"

// TailResponse describes a tail snapshot in a transport-friendly format.
type TailResponse struct {
	Source      string   `json:"source"`
	File        string   `json:"file,omitempty"`
	Found       bool     `json:"found"`
	Lines       []string `json:"lines"`
	GeneratedAt string   `json:"generatedAt"`
	Error       string   `json:"error,omitempty"`
}

// FromSnapshot converts a snapshot into its wire format. A nil line slice is
// encoded as an empty array.
func FromSnapshot(snap TailSnapshot, err error) TailResponse {
	lines := snap.Lines
	if lines == nil {
		lines = []string{}
	}
	resp := TailResponse{
		Source:      snap.Source,
		File:        snap.File,
		Found:       snap.Found,
		Lines:       lines,
		GeneratedAt: snap.GeneratedAt.UTC().Format(dateTimeFormat),
	}
	if err != nil {
		resp.Error = err.Error()
	}
	return resp
}
