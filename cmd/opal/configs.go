package main

import (
	"fmt"
	"io"
	"os"

	"github.com/opal-format/go-opal"
	"github.com/opal-format/go-opal/encode"
	"github.com/opal-format/go-opal/format"
	"github.com/opal-format/go-opal/stdlib"

	"github.com/scott-cotton/cli"

	"github.com/mattn/go-isatty"
)

type MainConfig struct {
	Color bool `cli:"name=color desc='encode with color'"`
	Plain bool `cli:"name=plain desc='skip the standard prelude'"`

	O bool `cli:"name=p aliases=opal desc='output in opal'"`
	J bool `cli:"name=j aliases=json desc='output in json'"`
	Y bool `cli:"name=y aliases=yaml desc='output in yaml'"`

	OutFormat *format.Format

	Out      string
	CloseOut func() error

	Main *cli.Command
}

func (cfg *MainConfig) fmtFunc(fp **format.Format) cli.FuncOpt {
	return cli.FuncOpt(func(_ *cli.Context, v string) (any, error) {
		f, err := format.ParseFormat(v)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", cli.ErrUsage, err)
		}
		*fp = &f
		return f, nil
	})
}

func (cfg *MainConfig) outOpt(cc *cli.Context, a string) (any, error) {
	cfg.Out = a
	if a == "-" {
		return nil, nil
	}
	f, err := os.OpenFile(cfg.Out, os.O_CREATE|os.O_TRUNC|os.O_RDWR, 0644)
	if err != nil {
		return nil, err
	}
	cc.Out = f
	cfg.CloseOut = f.Close
	return nil, nil
}

func (cfg *MainConfig) encOpts(w io.Writer) []encode.EncodeOption {
	var fmat format.Format
	switch {
	case cfg.O:
		fmat = format.OpalFormat
	case cfg.Y:
		fmat = format.YAMLFormat
	case cfg.J:
		fmat = format.JSONFormat
	}
	if cfg.OutFormat != nil {
		fmat = *cfg.OutFormat
	}
	res := []encode.EncodeOption{
		encode.EncodeFormat(fmat),
	}
	if cfg.Color {
		return append(res, encode.EncodeColors(encode.NewColors()))
	}
	f, ok := w.(*os.File)
	if ok && isatty.IsTerminal(f.Fd()) {
		return append(res, encode.EncodeColors(encode.NewColors()))
	}
	return res
}

// newDocument builds a document with the standard prelude unless
// -plain was given.
func (cfg *MainConfig) newDocument() (*opal.Document, error) {
	if cfg.Plain {
		return opal.New(), nil
	}
	p := opal.NewPrelude()
	if err := stdlib.Register(p); err != nil {
		return nil, err
	}
	if err := p.Finalize(); err != nil {
		return nil, err
	}
	return opal.New(opal.WithPrelude(p)), nil
}

// loadInto applies each argument to the document: "-" reads stdin,
// everything else is a file path.
func loadInto(d *opal.Document, args []string) error {
	if len(args) == 0 {
		args = []string{"-"}
	}
	for _, arg := range args {
		if arg == "-" {
			src, err := io.ReadAll(os.Stdin)
			if err != nil {
				return err
			}
			if err := d.Parse(src); err != nil {
				return fmt.Errorf("error parsing stdin: %w", err)
			}
			continue
		}
		if err := d.ParseFile(arg); err != nil {
			return fmt.Errorf("error parsing %s: %w", arg, err)
		}
	}
	return nil
}

type ViewConfig struct {
	*MainConfig

	View *cli.Command
}

type GetConfig struct {
	*MainConfig

	Get *cli.Command
}

type DiffConfig struct {
	*MainConfig
	Raw bool `cli:"name=raw desc='diff source text instead of resolved documents'"`

	Diff *cli.Command
}

type PatchConfig struct {
	*MainConfig
	Merge bool `cli:"name=m aliases=merge desc='apply as RFC 7386 merge patch'"`

	Patch *cli.Command
}
