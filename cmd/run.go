package cmd

import (
	"os"
	"os/signal"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/pkg/errors"
	"github.com/radovskyb/watcher"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type runFlags struct {
	dir     string // 工作目录
	port    string // 覆盖 server.http-port
	runMode string // 覆盖 server.run-mode
	config  string // 配置文件路径
}

// configPollInterval 配置文件轮询间隔
const configPollInterval = 5 * time.Second

func init() {
	runEnv := new(runFlags)

	runCommand := &cobra.Command{
		Use:   "run [-c config_file] [-d working_dir] [-p port]",
		Short: "Serve the note pad over HTTP and websocket",
		Long: `Serve the note pad over HTTP and websocket.

Writing the config file restarts the service with the new settings.
SIGINT or SIGTERM drains queued note writes and exits.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if runEnv.dir != "" {
				if err := os.Chdir(runEnv.dir); err != nil {
					return errors.Wrap(err, "change working directory")
				}
				bootstrapLogger.Info("working directory changed", zap.String("dir", runEnv.dir))
			}

			configPath, err := resolveConfig(runEnv.config)
			if err != nil {
				return err
			}
			runEnv.config = configPath

			s, err := NewServer(runEnv)
			if err != nil {
				return errors.Wrap(err, "start service")
			}
			var current atomic.Pointer[Server]
			current.Store(s)

			w := watchConfig(runEnv.config, func() {
				old := current.Load()
				old.sc.SendCloseSignal(nil)
				// the database file must be released before it is reopened
				if err := old.sc.WaitClosed(); err != nil {
					old.logger.Error("service stop err", zap.Error(err))
				}
				ns, err := NewServer(runEnv)
				if err != nil {
					bootstrapLogger.Error("service restart err", zap.Error(err))
					return
				}
				current.Store(ns)
			})
			defer w.Close()

			quit := make(chan os.Signal, 1)
			signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
			<-quit

			srv := current.Load()
			srv.logger.Info("received shutdown signal, shutting down")
			srv.sc.SendCloseSignal(nil)
			if err := srv.sc.WaitClosed(); err != nil {
				srv.logger.Error("shutdown completed with error", zap.Error(err))
				return err
			}
			srv.logger.Info("service has been shut down")
			return nil
		},
	}

	rootCmd.AddCommand(runCommand)
	fs := runCommand.Flags()
	fs.StringVarP(&runEnv.dir, "dir", "d", "", "working directory")
	fs.StringVarP(&runEnv.port, "port", "p", "", "listen address, overrides server.http-port")
	fs.StringVarP(&runEnv.runMode, "mode", "m", "", "debug or release, overrides server.run-mode")
	fs.StringVarP(&runEnv.config, "config", "c", "", "config file")
}

// watchConfig calls onChange after each write to path, one change at a time.
// The returned watcher must be closed by the caller.
// watchConfig 监听配置文件写入，串行调用 onChange
func watchConfig(path string, onChange func()) *watcher.Watcher {
	w := watcher.New()
	w.SetMaxEvents(1)
	w.FilterOps(watcher.Write)

	go func() {
		for {
			select {
			case event := <-w.Event:
				bootstrapLogger.Info("config changed, restarting", zap.String("file", event.Path))
				onChange()
			case err := <-w.Error:
				bootstrapLogger.Error("config watcher error", zap.Error(err))
			case <-w.Closed:
				return
			}
		}
	}()

	if err := w.Add(path); err != nil {
		bootstrapLogger.Error("config watcher add error", zap.Error(err))
		return w
	}
	go func() {
		if err := w.Start(configPollInterval); err != nil {
			bootstrapLogger.Error("config watcher start error", zap.Error(err))
		}
	}()
	return w
}
