package task

import (
	"fmt"
	"sync"

	"github.com/haierkeys/fast-note-pad/internal/app"
)

// Factory builds a task from the app container, a nil task means disabled
// Factory 任务工厂，返回 nil 表示任务未启用
type Factory func(a *app.App) (Task, error)

type registration struct {
	name    string
	factory Factory
}

var (
	registryMu sync.RWMutex
	registry   []registration
)

// Register adds a named factory; registering the same name twice panics.
// Register 注册任务工厂，通常在任务文件的 init() 中调用
func Register(name string, factory Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	for _, r := range registry {
		if r.name == name {
			panic(fmt.Sprintf("task %q already registered", name))
		}
	}
	registry = append(registry, registration{name: name, factory: factory})
}

// Registered 返回已注册的任务名，按注册顺序
func Registered() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, len(registry))
	for i, r := range registry {
		names[i] = r.name
	}
	return names
}

func registrations() []registration {
	registryMu.RLock()
	defer registryMu.RUnlock()
	return append([]registration(nil), registry...)
}
