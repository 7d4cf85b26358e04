package cmd

import (
	"os"

	"github.com/haierkeys/fast-note-pad/pkg/fileurl"

	"github.com/pkg/errors"
	"go.uber.org/zap"
)

// resolveConfig returns configPath, or the first existing default location.
// When nothing exists the embedded default is written to config/config.yaml.
// resolveConfig 查找配置文件，不存在时写入默认配置
func resolveConfig(configPath string) (string, error) {
	if len(configPath) > 0 {
		return configPath, nil
	}
	for _, p := range []string{"config/config-dev.yaml", "config.yaml", "config/config.yaml"} {
		if fileurl.IsExist(p) {
			return p, nil
		}
	}

	bootstrapLogger.Warn("config file not found, creating default config")
	configPath = "config/config.yaml"

	if err := fileurl.CreatePath(configPath, os.ModePerm); err != nil {
		return "", errors.Wrap(err, "config file auto create")
	}
	if err := os.WriteFile(configPath, []byte(configDefault), 0666); err != nil {
		return "", errors.Wrap(err, "config file auto create writing")
	}
	bootstrapLogger.Info("config file auto create successfully", zap.String("path", configPath))
	return configPath, nil
}
