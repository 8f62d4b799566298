package main

import (
	"fmt"
	"os"

	"github.com/opal-format/go-opal/encode"
	"github.com/opal-format/go-opal/format"

	jsonpatch "github.com/evanphx/json-patch"
	"github.com/scott-cotton/cli"
)

func patch(cfg *PatchConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Patch.Parse(cc, args)
	if err != nil {
		cfg.Patch.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: patch requires a patch file", cli.ErrUsage)
	}
	pd, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("error reading patch %s: %w", args[0], err)
	}
	apply, err := mkApply(cfg, pd)
	if err != nil {
		return fmt.Errorf("error in patch %s: %w", args[0], err)
	}
	files := args[1:]
	if len(files) == 0 {
		files = []string{"-"}
	}
	for _, file := range files {
		doc, err := render(cfg.MainConfig, file, encode.EncodeFormat(format.JSONFormat))
		if err != nil {
			return err
		}
		out, err := apply(doc)
		if err != nil {
			return fmt.Errorf("error patching %s: %w", file, err)
		}
		if err := writeAll(cc.Out, append(out, '\n')); err != nil {
			return err
		}
	}
	return nil
}

// mkApply decodes the patch once and returns the application
// function: RFC 6902 by default, RFC 7386 with -m.
func mkApply(cfg *PatchConfig, pd []byte) (func([]byte) ([]byte, error), error) {
	if cfg.Merge {
		return func(doc []byte) ([]byte, error) {
			return jsonpatch.MergePatch(doc, pd)
		}, nil
	}
	ops, err := jsonpatch.DecodePatch(pd)
	if err != nil {
		return nil, err
	}
	return ops.Apply, nil
}
