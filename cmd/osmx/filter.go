// Copyright 2025 the original author or authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"os"

	"github.com/spf13/cobra"

	"m4o.io/osmx"
	"m4o.io/osmx/cmd/osmx/cli"
	"m4o.io/osmx/model"
)

var out *os.File

// railPatterns are the fixed tags of interest: anything tagged railway,
// and train routes.  In future these could be read from standard input.
var railPatterns = []model.TagPattern{
	{Key: "railway", Value: model.Wildcard},
	{Key: "route", Value: "train"},
}

func init() {
	RootCmd.AddCommand(filterCmd)

	flags := filterCmd.Flags()
	flags.VarP(cli.NewWriterValue(os.Stdout, &out, "file"), "output", "o", "write the filtered document to a file instead of stdout")
	flags.BoolP("quiet", "q", false, "suppress the per-pass progress bar")
}

var filterCmd = &cobra.Command{
	Use:   "filter <OSM XML file>",
	Short: "Extract railway features and everything they reference",
	Long: "Extract every feature matching the railway filter from a compressed " +
		"OSM XML export, together with all nodes and ways the matches reference, " +
		"re-serialized as OSM XML.  The source is opened and scanned three " +
		"times, so it must be a file rather than a stream.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		quiet, err := cmd.Flags().GetBool("quiet")
		if err != nil {
			return err
		}

		opts := []osmx.Option{osmx.WithGenerator("osmx")}
		if !quiet {
			opts = append(opts, osmx.WithInputWrapper(cli.WrapInputFile))
		}

		f := osmx.New(railPatterns, opts...)

		if err := f.Run(cmd.Context(), args[0], out); err != nil {
			return err
		}

		if out != os.Stdout {
			return out.Close()
		}

		return nil
	},
}
