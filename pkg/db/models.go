package db

import "time"

// Asset is one exported audio asset row.
type Asset struct {
	Key            string
	FileName       string
	InGameFileName string
	Language       string
	Transcription  string
	// Reading is the hiragana reading of a Japanese transcription.
	Reading     string
	Speaker     string
	SpeakerType string
	OriginGUID  string
	UpdatedAt   time.Time
}

// Binding is one trigger binding of an asset, in record order.
type Binding struct {
	Position    int
	Kind        string
	Args        int64
	SpeakerHint string
}

// Coverage mirrors the dataset coverage counters for stored assets.
type Coverage struct {
	Total           int
	NoSpeaker       int
	NoTranscription int
	NoFileName      int
}
