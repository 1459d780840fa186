package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSongMeta(t *testing.T) {
	song := &Song{Name: "Oceans", Key: "D", BPM: "68", Time: "4/4"}
	assert.Equal(t, "D, 68, 4/4", song.Meta())
}

func TestSongCaptionJoinsTags(t *testing.T) {
	song := &Song{Name: "Oceans", Key: "D", BPM: "68", Time: "4/4", Tags: []string{"slow", "worship"}}
	assert.Equal(t, "D, 68, 4/4, slow, worship", song.Caption())
}

func TestSongCaptionWithoutTags(t *testing.T) {
	song := &Song{Name: "Oceans", Key: "D", BPM: "68", Time: "4/4"}
	assert.Equal(t, "D, 68, 4/4", song.Caption())
}
