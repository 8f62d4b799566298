package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/opal-format/go-opal/encode"
	"github.com/opal-format/go-opal/format"

	"github.com/scott-cotton/cli"
	diffpatch "github.com/sergi/go-diff/diffmatchpatch"
)

func diff(cfg *DiffConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Diff.Parse(cc, args)
	if err != nil {
		cfg.Diff.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: diff requires two arguments", cli.ErrUsage)
	}
	a, b, err := diffInputs(cfg, args[0], args[1])
	if err != nil {
		return err
	}
	diffCfg := diffpatch.New()
	ra, rb, lines := diffCfg.DiffLinesToRunes(a, b)
	diffs := diffCfg.DiffCharsToLines(diffCfg.DiffMainRunes(ra, rb, false), lines)
	if !hasChange(diffs) {
		return nil
	}
	if cfg.Color {
		if err := writeAll(cc.Out, []byte(diffCfg.DiffPrettyText(diffs))); err != nil {
			return err
		}
		return cli.ExitCodeErr(1)
	}
	for _, d := range diffs {
		prefix := " "
		switch d.Type {
		case diffpatch.DiffDelete:
			prefix = "-"
		case diffpatch.DiffInsert:
			prefix = "+"
		}
		for _, line := range splitLines(d.Text) {
			if err := writeAll(cc.Out, []byte(prefix+line+"\n")); err != nil {
				return err
			}
		}
	}
	return cli.ExitCodeErr(1)
}

// diffInputs produces the two texts to compare: resolved documents by
// default, the raw file contents with -raw.
func diffInputs(cfg *DiffConfig, fa, fb string) (string, string, error) {
	if cfg.Raw {
		a, err := os.ReadFile(fa)
		if err != nil {
			return "", "", err
		}
		b, err := os.ReadFile(fb)
		if err != nil {
			return "", "", err
		}
		return string(a), string(b), nil
	}
	opts := []encode.EncodeOption{encode.EncodeFormat(format.OpalFormat)}
	a, err := render(cfg.MainConfig, fa, opts...)
	if err != nil {
		return "", "", err
	}
	b, err := render(cfg.MainConfig, fb, opts...)
	if err != nil {
		return "", "", err
	}
	return string(a), string(b), nil
}

func hasChange(diffs []diffpatch.Diff) bool {
	for _, d := range diffs {
		if d.Type != diffpatch.DiffEqual {
			return true
		}
	}
	return false
}

func splitLines(s string) []string {
	s = strings.TrimSuffix(s, "\n")
	if s == "" {
		return nil
	}
	return strings.Split(s, "\n")
}
