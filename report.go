package main

import (
	"fmt"
	"strconv"

	"github.com/bemasher/rtlapt/apt"
)

// LineRecord describes the sync peak a decoded row starts at.
type LineRecord struct {
	Row      int     `json:"row" xml:"row,attr"`
	Position int     `json:"position" xml:"position,attr"`
	Score    float64 `json:"score" xml:"score,attr"`
	Spacing  int     `json:"spacing" xml:"spacing,attr"`
}

func (r LineRecord) String() string {
	return fmt.Sprintf("{Row:%4d Position:%8d Score:%8.0f Spacing:%5d}", r.Row, r.Position, r.Score, r.Spacing)
}

func (r LineRecord) Header() []string {
	return []string{"row", "position", "score", "spacing"}
}

func (r LineRecord) Record() []string {
	return []string{
		strconv.Itoa(r.Row),
		strconv.Itoa(r.Position),
		strconv.FormatFloat(r.Score, 'f', 0, 64),
		strconv.Itoa(r.Spacing),
	}
}

// NewLineRecords describes every row of img. Spacing is the distance from
// the previous row's sync, zero for the first.
func NewLineRecords(img *apt.Image) []LineRecord {
	records := make([]LineRecord, len(img.Lines))
	for idx, line := range img.Lines {
		records[idx] = LineRecord{
			Row:      idx,
			Position: line.Position,
			Score:    line.Score,
		}
		if idx > 0 {
			records[idx].Spacing = line.Position - img.Lines[idx-1].Position
		}
	}
	return records
}

// Report encodes a record for each row of img.
func Report(enc Encoder, img *apt.Image) error {
	for _, r := range NewLineRecords(img) {
		if err := enc.Encode(r); err != nil {
			return err
		}
	}
	return nil
}
