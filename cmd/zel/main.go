package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/reusee/dscope"
	"github.com/reusee/zel"
	"github.com/reusee/zel/cmds"
	"github.com/reusee/zel/logs"
	"github.com/reusee/zel/modes"
	"github.com/reusee/zel/zelcases"
	"github.com/reusee/zel/zelsched"
	"github.com/reusee/zel/zelvm"
)

var (
	exprFlag   = cmds.Var[string]("expr")
	paramFlags = cmds.Collect[string]("param")
	argFlags   = cmds.Collect[string]("arg")
	disasmFlag = cmds.Switch("disasm")
	caseFiles  = cmds.Collect[string]("cases")
	timeout    = cmds.Var[time.Duration]("-timeout")
)

func main() {
	if err := cmds.ExecuteArgs(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if *exprFlag == "" && len(*caseFiles) == 0 {
		cmds.GlobalExecutor.PrintUsage()
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if *timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, *timeout)
		defer cancel()
	}

	failed := false
	dscope.New(
		new(zel.Module),
		modes.ForProduction(),
	).Call(func(
		engine *zel.Engine,
		pool *zelsched.Pool,
		logger logs.Logger,
		newSpan logs.NewSpan,
	) {
		defer func() {
			if err := pool.Shutdown(context.Background()); err != nil {
				logger.Error("shutdown", "error", err)
			}
		}()

		if *exprFlag != "" {
			if err := evaluate(ctx, engine); err != nil {
				fmt.Fprintln(os.Stderr, err)
				failed = true
			}
		}

		for _, path := range *caseFiles {
			suite, err := zelcases.Load(path)
			if err != nil {
				fmt.Fprintln(os.Stderr, err)
				failed = true
				continue
			}
			suiteCtx, _ := newSpan(ctx, "")
			passed, total := 0, 0
			for c, err := range suite.Run(suiteCtx, engine.Executor()) {
				total++
				if err != nil {
					fmt.Fprintf(os.Stderr, "FAIL %s: %v\n", c.Name, logs.WrapSpan(suiteCtx, err))
					failed = true
					continue
				}
				passed++
			}
			fmt.Printf("%s: %d/%d passed\n", path, passed, total)
		}
	})

	if failed {
		os.Exit(1)
	}
}

func evaluate(ctx context.Context, engine *zel.Engine) error {
	program, err := engine.Compile(*exprFlag, *paramFlags...)
	if err != nil {
		return err
	}
	if *disasmFlag {
		fmt.Print(zelvm.Disassemble(program))
	}

	args := make([]any, 0, len(*argFlags))
	for _, src := range *argFlags {
		v, err := zelcases.Literal(ctx, src)
		if err != nil {
			return fmt.Errorf("arg %s: %w", src, err)
		}
		args = append(args, v)
	}

	v, err := engine.Execute(ctx, program, args...)
	if err != nil {
		return err
	}
	fmt.Println(v.GoString())
	return nil
}
