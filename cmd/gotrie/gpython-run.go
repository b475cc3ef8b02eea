package main

import (
	"time"

	"github.com/go-python/gpython/py"
	"github.com/plan-systems/klog"

	_ "github.com/2x3systems/gotrie/py/pytrie"
	_ "github.com/go-python/gpython/stdlib"
)

func runScript(pathname string) error {
	ctx := py.NewContext(py.DefaultContextOpts())

	startTime := time.Now()
	klog.Infof("<<<>>>   executing '%s'   <<<>>>", pathname)

	_, err := py.RunFile(ctx, pathname, py.CompileOpts{}, nil)
	if err == nil {
		klog.Infof("<<<>>>   execution complete: %v   <<<>>>", time.Since(startTime))
	}

	ctx.Close()
	<-ctx.Done()

	if err != nil {
		py.TracebackDump(err)
	}
	return err
}
