package configuration

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"ted-mirror/infrastructure/logger"

	"github.com/spf13/viper"
)

type Config struct {
	App         App         `json:"app"`
	Database    Database    `json:"database"`
	RedisClient RedisClient `json:"redisClient"`
	YouTube     YouTube     `json:"youtube"`
	Sync        Sync        `json:"sync"`
}

type App struct {
	Port      int    `json:"port"`
	SecretKey string `json:"secretKey"`
}

type Database struct {
	Mongo Db `json:"mongo"`
}

type Db struct {
	Name     string `json:"name"`
	Host     string `json:"host"`
	Port     string `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
}

type RedisClient struct {
	Host     string `json:"host"`
	Port     string `json:"port"`
	Username string `json:"username"`
	Password string `json:"password"`
}

// ChannelConfig describes one mirrored channel: its upstream ids and the sync
// strategy applied to it. UploadsID may be empty, in which case it is resolved
// through the source at sync time.
type ChannelConfig struct {
	ChannelID string `json:"channelId"`
	UploadsID string `json:"uploadsId"`
	Strategy  string `json:"strategy"` // full, capped
	Limit     int    `json:"limit"`    // capped strategy only; 0 = unlimited
}

type YouTube struct {
	APIKey   string                   `json:"apiKey"`
	Channels map[string]ChannelConfig `json:"channels"`
}

type Sync struct {
	IntervalHours  int `json:"intervalHours"`
	BatchSize      int `json:"batchSize"`
	PacingMillis   int `json:"pacingMillis"`
	CallTimeoutSec int `json:"callTimeoutSec"`
}

var C Config

func init() {
	LoadConfig()
	initApp(&C)
	initDatabase(&C)
	initYouTube(&C)
	initSync(&C)
}

func LoadConfig() {
	name := getConfig()
	viper.SetConfigName(name)
	viper.SetConfigType("json")
	viper.AddConfigPath(".")
	viper.AddConfigPath("../")
	viper.AddConfigPath("../../")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			logger.GetLogger().Warn("Config file not found")
		} else {
			logger.GetLogger().WithField("error", err).Error("Error reading config file")
		}
	}

	if err := viper.Unmarshal(&C); err != nil {
		logger.GetLogger().WithField("error", err).Error("Viper unable to decode into struct")
	}
	logger.GetLogger().WithField("config", name).Info("Config set up successfully")
}

func getConfig() string {
	name := "config"
	env := os.Getenv("ENV")
	if env != "" {
		name = fmt.Sprintf("%s-%s", name, env)
	}
	return name
}

func initApp(C *Config) {
	if v := os.Getenv("SECRET_KEY"); v != "" {
		C.App.SecretKey = v
	}
	if v := os.Getenv("APP_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			C.App.Port = p
		}
	} else if v := os.Getenv("PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			C.App.Port = p
		}
	}
	if C.App.Port == 0 {
		C.App.Port = 5000
	}
	if C.App.SecretKey == "" {
		logger.GetLogger().Warn("App.SecretKey not set; JWT authentication will fail. Provide SECRET_KEY via environment.")
	}
}

func initDatabase(C *Config) {
	if C.Database.Mongo.Name == "" {
		C.Database.Mongo.Name = envOr("MONGO_DB_NAME", "ted_mirror")
	}
	if C.Database.Mongo.Host == "" {
		C.Database.Mongo.Host = envOr("MONGO_HOST", "localhost")
	}
	if C.Database.Mongo.Port == "" {
		C.Database.Mongo.Port = envOr("MONGO_PORT", "27017")
	}
	if C.Database.Mongo.User == "" {
		C.Database.Mongo.User = os.Getenv("MONGO_USER")
	}
	if C.Database.Mongo.Password == "" {
		C.Database.Mongo.Password = os.Getenv("MONGO_PASSWORD")
	}
}

func initYouTube(C *Config) {
	if v := os.Getenv("YOUTUBE_API_KEY"); v != "" {
		C.YouTube.APIKey = v
	}
	if len(C.YouTube.Channels) == 0 {
		// TED and TED-Ed are walked in full; TEDx has 200k+ uploads and is
		// capped to the most recent and most popular slices.
		C.YouTube.Channels = map[string]ChannelConfig{
			"ted":   {ChannelID: "UCAuUUnT6oDeKwE6v1NGQxug", UploadsID: "UUAuUUnT6oDeKwE6v1NGQxug", Strategy: "full"},
			"teded": {ChannelID: "UCsooa4yRKGN_zEE8iknghZA", Strategy: "full"},
			"tedx":  {ChannelID: "UCsT0YIqwnpJCM-mx7-gSA4Q", Strategy: "capped", Limit: 5000},
		}
	}
}

func initSync(C *Config) {
	if C.Sync.IntervalHours == 0 {
		C.Sync.IntervalHours = 12
	}
	if C.Sync.BatchSize == 0 {
		C.Sync.BatchSize = 50
	}
	if C.Sync.PacingMillis == 0 {
		C.Sync.PacingMillis = 100
	}
	if C.Sync.CallTimeoutSec == 0 {
		C.Sync.CallTimeoutSec = 30
	}
}

// Interval returns the scheduler period.
func (s Sync) Interval() time.Duration {
	return time.Duration(s.IntervalHours) * time.Hour
}

// Pacing returns the delay applied between detail batches.
func (s Sync) Pacing() time.Duration {
	return time.Duration(s.PacingMillis) * time.Millisecond
}

// CallTimeout bounds a single outbound source call.
func (s Sync) CallTimeout() time.Duration {
	return time.Duration(s.CallTimeoutSec) * time.Second
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
