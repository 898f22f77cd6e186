package main

import (
	"errors"
	"os"

	"github.com/Anthya1104/raid-forensic/internal/cobra"
	"github.com/Anthya1104/raid-forensic/internal/config"
	"github.com/Anthya1104/raid-forensic/internal/logger"
	"github.com/Anthya1104/raid-forensic/internal/raiderr"
	"github.com/sirupsen/logrus"
)

func main() {
	if err := logger.InitLogger(config.LogLevelInfo); err != nil {
		logrus.Fatalf("Error initializing Logger : %v", err)
	}

	if err := cobra.ExecuteCmd(); err != nil {
		logrus.Error(err)
		if errors.Is(err, raiderr.ErrArgument) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
