package config

import "os"

func IsDebug() bool {
	return os.Getenv("ARTHPAGE_DEBUG") == "1"
}
