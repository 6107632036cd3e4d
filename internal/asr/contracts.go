package asr

import "context"

// Request describes one transcription call over mono PCM frames.
type Request struct {
	Samples      []int16 // mono, fixed-rate PCM frames
	SampleRate   int     // frames per second
	LanguageCode string  // e.g. "en-IN", "hi-IN"

	Diarize     bool
	MinSpeakers int // 0 = default hint
	MaxSpeakers int // 0 = default hint

	ChunkSeconds int // 0 = transcriber default
}

// RecognitionConfig is the per-call configuration handed to a Recognizer.
type RecognitionConfig struct {
	SampleRate   int
	LanguageCode string
	Diarize      bool
	MinSpeakers  int
	MaxSpeakers  int
}

// Word is a recognized word with its optional speaker tag (0 = untagged).
type Word struct {
	Text       string
	SpeakerTag int
}

// ChunkResult is the recognizer's answer for one audio chunk.
type ChunkResult struct {
	Transcript string
	Words      []Word
}

// Recognizer performs synchronous speech recognition over one
// self-contained audio container (WAV bytes).
type Recognizer interface {
	Recognize(ctx context.Context, audio []byte, cfg RecognitionConfig) (ChunkResult, error)
}

// Segment is one transcribed chunk. Segments are contiguous,
// non-overlapping, and cover the full sample range in order.
type Segment struct {
	ChunkIndex int
	FrameStart int
	FrameEnd   int // exclusive
	Result     ChunkResult
}

// Utterance is a run of consecutive same-speaker words within one chunk.
type Utterance struct {
	Speaker string // "Person <tag>"
	Text    string
	Chunk   int
	Seq     int // order within the chunk
}

// Result is the transcriber output for one invocation.
type Result struct {
	Transcript   string
	Segments     []Segment
	Utterances   []Utterance // empty unless diarization was requested
	DiarizedText string      // "Person N: ..." lines, empty unless diarized
	SpeakerCount int         // distinct tags across all chunks; metadata only
}
