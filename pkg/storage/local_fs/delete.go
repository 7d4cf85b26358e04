package local_fs

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/haierkeys/fast-note-pad/pkg/fileurl"
)

// Delete removes fileKey. An absolute path is accepted only inside the save path.
// Deleting a missing file is not an error.
// Delete 删除文件，绝对路径必须位于保存目录内，文件不存在时忽略
func (p *LocalFS) Delete(fileKey string) error {
	dst := p.getSavePath() + fileKey
	if filepath.IsAbs(fileKey) {
		dst = fileKey
	}
	if !fileurl.IsWithin(p.Root(), dst) {
		return fmt.Errorf("%s is outside %s", fileKey, p.Root())
	}
	if err := os.Remove(dst); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}
