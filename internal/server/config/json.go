package config

import (
	"encoding/json"
	"os"

	"github.com/mlezhnev/moviehub/internal/flagx"
	"github.com/mlezhnev/moviehub/internal/timex"
)

// JsonConfig is the DTO used when reading a JSON configuration file. Interval
// fields use timex.Duration so both "24h" strings and integer nanoseconds
// parse. After unmarshalling, its fields are copied into the runtime Config.
type JsonConfig struct {
	Addr                 string         `json:"addr"`
	DatabaseDSN          string         `json:"database_dsn"`
	SessionTTL           timex.Duration `json:"session_ttl"`
	SessionTouchInterval timex.Duration `json:"session_touch_interval"`
	FlashSecret          string         `json:"flash_secret"`
	BcryptCost           int            `json:"bcrypt_cost"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance. The file path comes from the -c or -config command-line
// flags; when neither is set, no JSON file is loaded. An unreadable or
// invalid file panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	config.Addr = c.Addr
	config.DatabaseDSN = c.DatabaseDSN
	config.SessionTTL = c.SessionTTL.Duration
	config.SessionTouchInterval = c.SessionTouchInterval.Duration
	config.FlashSecret = c.FlashSecret
	config.BcryptCost = c.BcryptCost
}
