package logger

import (
	"io"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"gopkg.in/natefinch/lumberjack.v2"
)

const logDirMode = 0o750

// RollingWriter opens f inside the log directory, creating the directory when needed.
func (lf LogFile) RollingWriter(f RollingFile) (io.Writer, error) {
	if f.Name == "" {
		return nil, ErrLogFileNameIsEmpty
	}

	if lf.Path != "" {
		if err := os.MkdirAll(lf.Path, logDirMode); err != nil {
			return nil, errors.Wrapf(err, "can't create log directory %s", lf.Path)
		}
	}

	return &lumberjack.Logger{
		Filename:   filepath.Join(lf.Path, f.Name),
		MaxSize:    f.MaxSize,
		MaxAge:     f.MaxAge,
		MaxBackups: f.MaxBackups,
	}, nil
}

// levelFiles builds a LevelWriter with one rolling file per level group.
func levelFiles(lf LogFile) (*LevelWriter, error) {
	var (
		lw  LevelWriter
		err error
	)

	for _, target := range []struct {
		dst  *io.Writer
		file RollingFile
	}{
		{&lw.ErrorWriter, lf.Error},
		{&lw.InfoWriter, lf.Info},
		{&lw.TraceWriter, lf.Trace},
		{&lw.WarnWriter, lf.Warn},
	} {
		if *target.dst, err = lf.RollingWriter(target.file); err != nil {
			return nil, err
		}
	}

	return &lw, nil
}
