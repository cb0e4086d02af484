package bdap

import (
	"os"

	"github.com/op/go-logging"
)

var log = logging.MustGetLogger("bdap")

var stderrFormat = logging.MustStringFormatter(
	`%{color}bdap ▶ %{level:.4s} %{message}%{color:reset}`,
)

func init() {
	backend := logging.NewLogBackend(os.Stderr, "", 0)
	logging.SetFormatter(stderrFormat)
	leveled := logging.AddModuleLevel(backend)
	level := logging.WARNING
	switch os.Getenv("BDAP_LOG_LEVEL") {
	case "DEBUG":
		level = logging.DEBUG
	case "INFO":
		level = logging.INFO
	case "ERROR":
		level = logging.ERROR
	}
	leveled.SetLevel(level, "")
	logging.SetBackend(leveled)
}
