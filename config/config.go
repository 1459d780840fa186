package config

import (
	"fmt"

	"github.com/kelseyhightower/envconfig"
)

// Config is loaded from PLANNER_* environment variables.
type Config struct {
	MongoDBURI  string `envconfig:"MONGODB_URI" required:"true"`
	MongoDBName string `envconfig:"MONGODB_NAME" default:"planner"`

	Port string `envconfig:"PORT" default:"8080"`

	// Setlist composition caps. Zero disables a cap.
	SetlistItemCap    int `envconfig:"SETLIST_ITEM_CAP" default:"6"`
	UnfamiliarSongCap int `envconfig:"UNFAMILIAR_SONG_CAP" default:"1"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("planner", &cfg); err != nil {
		return nil, fmt.Errorf("error processing environment: %w", err)
	}
	return &cfg, nil
}
