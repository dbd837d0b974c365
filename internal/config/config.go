package config

import (
	"os"
	"strconv"
)

type Config struct {
	Port             string
	BaseURL          string
	DataDir          string
	RoomCodeAttempts int
}

func FromEnv() Config {
	c := Config{}
	c.Port = getenv("PORT", "8080")
	c.BaseURL = getenv("BASE_URL", "http://localhost:"+c.Port)
	c.DataDir = getenv("DATA_DIR", "./data")
	c.RoomCodeAttempts = getint("ROOM_CODE_ATTEMPTS", 10)
	return c
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getint(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}
