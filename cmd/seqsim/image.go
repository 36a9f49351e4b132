// Copyright 2018 Denis Bernard <db047h@gmail.com>
// Licensed under the MIT license. See license text in the LICENSE file.

package main

import (
	"io"
	"os"

	"github.com/db47h/seqsim/mem"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

type imageOptions struct {
	addrBits int
	width    int
	cols     int
	out      string
}

func (o *imageOptions) addFlags(fs *pflag.FlagSet) {
	fs.IntVarP(&o.addrBits, "addr-bits", "a", 16, "address width of the memory, in bits")
	fs.IntVarP(&o.width, "width", "w", 8, "word width, in bits")
	fs.IntVar(&o.cols, "cols", mem.DefaultColumns, "words per row")
	fs.StringVarP(&o.out, "out", "o", "", "write the image back to this file in canonical form")
}

func newImageCmd() *cobra.Command {
	var o imageOptions
	cmd := &cobra.Command{
		Use:   "image file",
		Short: "Print a raw memory image as a hex dump",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return o.run(args[0], cmd.OutOrStdout())
		},
	}
	o.addFlags(cmd.Flags())
	return cmd
}

func (o *imageOptions) run(name string, out io.Writer) error {
	r, err := os.Open(name)
	if err != nil {
		return err
	}
	defer r.Close()
	s := mem.New(o.addrBits, o.width)
	if err = mem.ReadImage(r, s); err != nil {
		return errors.Wrap(err, name)
	}
	last, _ := s.Last()
	logrus.WithFields(logrus.Fields{
		"image": name,
		"pages": s.Pages(),
		"last":  last,
	}).Debug("image loaded")

	v := mem.ViewerFor(s)
	v.Cols = o.cols
	if _, err = v.WriteTo(out); err != nil {
		return err
	}
	if o.out == "" {
		return nil
	}
	w, err := os.Create(o.out)
	if err != nil {
		return err
	}
	if err = mem.WriteImage(w, s); err != nil {
		w.Close()
		return errors.Wrap(err, o.out)
	}
	return w.Close()
}
