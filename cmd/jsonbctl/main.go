/*
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Command jsonbctl is a small CLI front-end over the jsonb package:
// encode/decode between JSON text and JSONB bytes, run a JSONPath query,
// pretty-print, and compare two values.
package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/flowbyte/jsonb"
	"github.com/flowbyte/jsonb/jsonpath"
)

func readAllStdinOrFile(path string) ([]byte, error) {
	if path == "" || path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "jsonbctl",
		Short:         "Inspect and manipulate JSONB-encoded values",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newEncodeCmd(), newDecodeCmd(), newPathCmd(), newPrettyCmd(), newCompareCmd())
	return root
}

func newEncodeCmd() *cobra.Command {
	var in string
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Encode JSON text to JSONB, printed as hex",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readAllStdinOrFile(in)
			if err != nil {
				return err
			}
			out, err := jsonb.ParseText(nil, text)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(out))
			return nil
		},
	}
	cmd.Flags().StringVarP(&in, "in", "i", "", "input file (default: stdin)")
	return cmd
}

func newDecodeCmd() *cobra.Command {
	var in string
	var pretty bool
	cmd := &cobra.Command{
		Use:   "decode",
		Short: "Decode hex-encoded JSONB back to JSON text",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readAllStdinOrFile(in)
			if err != nil {
				return err
			}
			raw, err := hex.DecodeString(string(bytesTrimSpace(data)))
			if err != nil {
				return err
			}
			opts := jsonb.CompactText
			if pretty {
				opts = jsonb.PrettyOptions{Enabled: true, Indent: 2}
			}
			out, err := jsonb.ToText(nil, jsonb.Value(raw), opts)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
	cmd.Flags().StringVarP(&in, "in", "i", "", "input file (default: stdin)")
	cmd.Flags().BoolVar(&pretty, "pretty", false, "indent the output")
	return cmd
}

func newPathCmd() *cobra.Command {
	var in, mode string
	cmd := &cobra.Command{
		Use:   "path <expr>",
		Short: "Evaluate a JSONPath expression against hex-encoded JSONB on stdin",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readAllStdinOrFile(in)
			if err != nil {
				return err
			}
			raw, err := hex.DecodeString(string(bytesTrimSpace(data)))
			if err != nil {
				return err
			}
			m, err := parseMode(mode)
			if err != nil {
				return err
			}
			sel, err := jsonb.NewSelector(args[0], m)
			if err != nil {
				return err
			}
			out, matches, err := sel.Run(nil, jsonb.Value(raw))
			if err != nil {
				return err
			}
			if len(out) > 0 {
				fmt.Fprintln(cmd.OutOrStdout(), hex.EncodeToString(out))
				return nil
			}
			for _, m := range matches {
				text, err := jsonb.ToText(nil, m.Value, jsonb.CompactText)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%d: %s\n", m.Offset, text)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&in, "in", "i", "", "input file (default: stdin)")
	cmd.Flags().StringVar(&mode, "mode", "mixed", "mixed|first|array|predicate")
	return cmd
}

func parseMode(s string) (jsonpath.Mode, error) {
	switch s {
	case "mixed":
		return jsonpath.Mixed, nil
	case "first":
		return jsonpath.First, nil
	case "array":
		return jsonpath.Array, nil
	case "predicate":
		return jsonpath.Predicate, nil
	default:
		return 0, fmt.Errorf("unknown mode %q", s)
	}
}

func newPrettyCmd() *cobra.Command {
	var in string
	var indent int
	cmd := &cobra.Command{
		Use:   "pretty",
		Short: "Pretty-print JSON text through a JSONB round trip",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readAllStdinOrFile(in)
			if err != nil {
				return err
			}
			encoded, err := jsonb.ParseText(nil, text)
			if err != nil {
				return err
			}
			out, err := jsonb.ToText(nil, jsonb.Value(encoded), jsonb.PrettyOptions{Enabled: true, Indent: indent})
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}
	cmd.Flags().StringVarP(&in, "in", "i", "", "input file (default: stdin)")
	cmd.Flags().IntVar(&indent, "indent", 2, "spaces per indent level")
	return cmd
}

func newCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare <a.json> <b.json>",
		Short: "Compare two JSON text files under the JSONB total order",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			b, err := os.ReadFile(args[1])
			if err != nil {
				return err
			}
			av, err := jsonb.ParseText(nil, a)
			if err != nil {
				return err
			}
			bv, err := jsonb.ParseText(nil, b)
			if err != nil {
				return err
			}
			c, err := jsonb.Compare(jsonb.Value(av), jsonb.Value(bv))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), c)
			return nil
		},
	}
	return cmd
}

func bytesTrimSpace(b []byte) []byte {
	start, end := 0, len(b)
	for start < end && isSpace(b[start]) {
		start++
	}
	for end > start && isSpace(b[end-1]) {
		end--
	}
	return b[start:end]
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "jsonbctl:", err)
		os.Exit(1)
	}
}
