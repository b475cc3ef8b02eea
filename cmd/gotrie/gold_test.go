package main

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-python/gpython/py"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGold(t *testing.T) {
	scriptDir := filepath.Join("testdata", "scripts")
	goldDir := filepath.Join("testdata", "gold")
	outDir := t.TempDir()

	files, err := os.ReadDir(scriptDir)
	require.NoError(t, err)

	for _, fi := range files {
		ext := filepath.Ext(fi.Name())
		if ext != ".py" {
			continue
		}
		name := fi.Name()[:len(fi.Name())-len(ext)]
		outputPathname := filepath.Join(outDir, name+".txt")

		ctx := py.NewContext(py.DefaultContextOpts())
		redirect, err := redirectToFile(outputPathname, ctx)
		require.NoError(t, err)

		_, err = py.RunFile(ctx, filepath.Join(scriptDir, fi.Name()), py.CompileOpts{}, nil)
		ctx.Close()
		<-ctx.Done()
		require.NoError(t, redirect.Close())
		if err != nil {
			py.TracebackDump(err)
		}
		require.NoError(t, err, fi.Name())

		got, err := os.ReadFile(outputPathname)
		require.NoError(t, err)
		want, err := os.ReadFile(filepath.Join(goldDir, name+".txt"))
		require.NoError(t, err)
		assert.Equal(t, string(want), string(got), fi.Name())
	}
}

type pyRedirect struct {
	file *os.File
}

func redirectToFile(outputPathname string, ctx py.Context) (io.Closer, error) {
	ofile, err := os.OpenFile(outputPathname, os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return nil, err
	}

	sys := ctx.Store().MustGetModule("sys")
	sys.Globals["stdout"] = &py.File{
		File:     ofile,
		FileMode: py.FileWrite,
	}
	return &pyRedirect{file: ofile}, nil
}

func (redir *pyRedirect) Close() error {
	if redir.file == nil {
		return nil
	}
	err := redir.file.Close()
	redir.file = nil
	return err
}
