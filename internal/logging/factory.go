package logging

import (
	"fmt"
	"sync"

	"aijobs-utils/internal/config"
	"aijobs-utils/internal/logging/adapters"
	"aijobs-utils/internal/logging/types"
)

var (
	globalLogger *MultiLogger
	globalOnce   sync.Once
)

// GetGlobalLogger returns the process-wide logger, creating a stdout-backed
// default if Initialize was never called.
func GetGlobalLogger() Logger {
	globalOnce.Do(func() {
		if globalLogger == nil {
			globalLogger = NewMultiLogger()
			_ = globalLogger.AddAdapter(adapters.NewStdoutAdapter("default", adapters.StdoutConfig{Format: "json"}))
		}
	})
	return globalLogger
}

// Initialize builds the global logger from configuration. It must be called
// once at startup, before any component grabs the logger.
func Initialize(cfg *config.Config) error {
	logger := NewMultiLogger()
	logger.SetLevel(ParseLogLevel(cfg.Logging.Level))

	if len(cfg.Logging.Adapters) == 0 {
		// Legacy single-output configuration
		logger.AddAdapter(adapters.NewStdoutAdapter("stdout", adapters.StdoutConfig{
			Format: cfg.Logging.Format,
		}))
		globalLogger = logger
		globalOnce.Do(func() {})
		return nil
	}

	for _, ac := range cfg.Logging.Adapters {
		if !ac.Enabled {
			continue
		}
		adapter, err := createAdapter(types.AdapterConfig{
			Name:    ac.Name,
			Type:    ac.Type,
			Enabled: ac.Enabled,
			Options: ac.Options,
		})
		if err != nil {
			return fmt.Errorf("failed to create %s adapter: %w", ac.Type, err)
		}
		if err := logger.AddAdapter(adapter); err != nil {
			return err
		}
	}

	globalLogger = logger
	globalOnce.Do(func() {})
	return nil
}

// createAdapter creates a logging adapter based on the provided configuration
func createAdapter(ac types.AdapterConfig) (types.LogAdapter, error) {
	switch ac.Type {
	case "stdout":
		return adapters.NewStdoutAdapter(ac.Name, adapters.StdoutConfig{
			Format:    getStringOption(ac.Options, "format", "json"),
			Colorized: getBoolOption(ac.Options, "colorized", false),
		}), nil
	case "file":
		adapter, err := adapters.NewFileAdapter(ac.Name, adapters.FileConfig{
			FilePath:    getStringOption(ac.Options, "file_path", ""),
			Format:      getStringOption(ac.Options, "format", "json"),
			CreateDirs:  getBoolOption(ac.Options, "create_dirs", true),
			SyncOnWrite: getBoolOption(ac.Options, "sync_on_write", false),
		})
		if err != nil {
			return nil, err
		}
		return adapter, nil
	default:
		return nil, fmt.Errorf("unsupported adapter type: %s", ac.Type)
	}
}

func getStringOption(options map[string]interface{}, key string, defaultValue string) string {
	if value, exists := options[key]; exists {
		if str, ok := value.(string); ok {
			return str
		}
	}
	return defaultValue
}

func getBoolOption(options map[string]interface{}, key string, defaultValue bool) bool {
	if value, exists := options[key]; exists {
		if boolVal, ok := value.(bool); ok {
			return boolVal
		}
	}
	return defaultValue
}
