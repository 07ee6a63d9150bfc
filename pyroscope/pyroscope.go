package pyroscope

import (
	"errors"
	"os"
	"runtime"

	"github.com/grafana/pyroscope-go"
	"github.com/sirupsen/logrus"
)

var profileTypes = []pyroscope.ProfileType{
	pyroscope.ProfileCPU,
	pyroscope.ProfileAllocObjects,
	pyroscope.ProfileAllocSpace,
	pyroscope.ProfileInuseObjects,
	pyroscope.ProfileInuseSpace,

	pyroscope.ProfileGoroutines,
	pyroscope.ProfileMutexCount,
	pyroscope.ProfileMutexDuration,
	pyroscope.ProfileBlockCount,
	pyroscope.ProfileBlockDuration,
}

func profilerConfig(config Config, logger *logrus.Logger) pyroscope.Config {
	tags := map[string]string{"hostname": os.Getenv("HOSTNAME")}
	for k, v := range config.Tags {
		tags[k] = v
	}

	pyroscopeConfig := pyroscope.Config{
		ApplicationName: config.ApplicationName,
		ServerAddress:   config.ServerAddress,
		Tags:            tags,
		ProfileTypes:    profileTypes,
	}

	if logger != nil {
		pyroscopeConfig.Logger = logger
	}

	if config.ApiKey != "" {
		pyroscopeConfig.AuthToken = config.ApiKey
	}

	return pyroscopeConfig
}

// Run starts continuous profiling. The returned function stops the
// profiler and flushes what it has collected.
func Run(config Config, logger *logrus.Logger) (func() error, error) {
	if !config.Enabled() {
		return nil, errors.New("pyroscope is not configured")
	}

	runtime.SetMutexProfileFraction(config.MutexProfileFraction)
	runtime.SetBlockProfileRate(config.BlockProfileRate)

	profiler, err := pyroscope.Start(profilerConfig(config, logger))
	if err != nil {
		return nil, err
	}
	return profiler.Stop, nil
}
