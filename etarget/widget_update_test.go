package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/itohio/goetarget/pkg/scorer"
	"github.com/itohio/goetarget/pkg/shot"
)

func TestFormatShotRow(t *testing.T) {
	tests := []struct {
		name   string
		scored scorer.Scored
		want   string
	}{
		{
			name: "hit",
			scored: scorer.Scored{
				Record: shot.Record{Number: 7, Score: 10.4, Angle: 90, ResultX: 1.5, ResultY: -2.25},
				Result: shot.Result{Kind: shot.Position},
			},
			want: "#0007  10.4  12:00  (+001.50, -002.25)",
		},
		{
			name: "miss",
			scored: scorer.Scored{
				Record: shot.Record{Number: 12},
				Result: shot.Result{Kind: shot.Miss, Reason: shot.FaceStrike},
			},
			want: "#0012  miss (face_strike)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, formatShotRow(tt.scored))
		})
	}
}
