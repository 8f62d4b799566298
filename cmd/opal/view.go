package main

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/opal-format/go-opal/encode"

	"github.com/scott-cotton/cli"
)

func view(cfg *ViewConfig, cc *cli.Context, args []string) error {
	args, err := cfg.View.Parse(cc, args)
	if err != nil {
		cfg.View.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	d, err := cfg.newDocument()
	if err != nil {
		return err
	}
	if err := loadInto(d, args); err != nil {
		return err
	}
	return encode.Encode(d.Get(), cc.Out, cfg.encOpts(cc.Out)...)
}

func get(cfg *GetConfig, cc *cli.Context, args []string) error {
	args, err := cfg.Get.Parse(cc, args)
	if err != nil {
		cfg.Get.Usage(cc, err)
		return cli.ExitCodeErr(1)
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: get requires an object path", cli.ErrUsage)
	}
	path := strings.Split(args[0], ".")
	d, err := cfg.newDocument()
	if err != nil {
		return err
	}
	if err := loadInto(d, args[1:]); err != nil {
		return err
	}
	e := d.Get(path...)
	if err := encode.Encode(e, cc.Out, cfg.encOpts(cc.Out)...); err != nil {
		return fmt.Errorf("error at %s: %w", args[0], err)
	}
	return nil
}

// render resolves one file into its own document and encodes it to
// text, used by diff and patch.
func render(cfg *MainConfig, file string, opts ...encode.EncodeOption) ([]byte, error) {
	d, err := cfg.newDocument()
	if err != nil {
		return nil, err
	}
	if err := loadInto(d, []string{file}); err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := encode.Encode(d.Get(), &buf, opts...); err != nil {
		return nil, fmt.Errorf("error encoding %s: %w", file, err)
	}
	return buf.Bytes(), nil
}

func writeAll(w io.Writer, d []byte) error {
	_, err := w.Write(d)
	return err
}
