// Command skemafile is schema-agnostic tooling for skemafile documents:
// inspect reports the detected format and version tag of a file, convert
// re-serializes a document between formats.
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	pflag "github.com/spf13/pflag"

	skemafile "github.com/reoring/skemafile"
	jsonformat "github.com/reoring/skemafile/format/json"
	jwccformat "github.com/reoring/skemafile/format/jwcc"
	tomlformat "github.com/reoring/skemafile/format/toml"
	yamlformat "github.com/reoring/skemafile/format/yaml"
)

var log = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
	With().Timestamp().Logger()

func main() {
	root := &cobra.Command{
		Use:           "skemafile",
		Short:         "Inspect and convert versioned skemafile documents",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(inspectCmd(), convertCmd())
	if err := root.Execute(); err != nil {
		log.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}

func addFormatFlag(fs *pflag.FlagSet, p *string, name, usage string) {
	fs.StringVar(p, name, "", usage+" (json, yaml, toml, jwcc)")
}

func inspectCmd() *cobra.Command {
	var formatName string
	cmd := &cobra.Command{
		Use:   "inspect <file>",
		Short: "Report the format and version tag of a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			ser, err := serializerFor(path, formatName)
			if err != nil {
				return err
			}
			text, err := skemafile.OSFileIO().ReadText(context.Background(), path)
			if err != nil {
				return err
			}
			v, err := ser.Parse(text)
			if err != nil {
				return fmt.Errorf("parse %s as %s: %w", path, ser.FormatName(), err)
			}
			fmt.Printf("format:   %s\n", ser.FormatName())
			obj, ok := v.(map[string]any)
			if !ok {
				fmt.Printf("document: %T (not an object; unversioned)\n", v)
				return nil
			}
			keys := make([]string, 0, len(obj))
			for k := range obj {
				if k != skemafile.VersionKey {
					keys = append(keys, k)
				}
			}
			sort.Strings(keys)
			if ver, present := obj[skemafile.VersionKey]; present {
				fmt.Printf("version:  %v\n", ver)
			} else {
				fmt.Printf("version:  (none; unversioned)\n")
			}
			fmt.Printf("fields:   %s\n", strings.Join(keys, ", "))
			return nil
		},
	}
	addFormatFlag(cmd.Flags(), &formatName, "format", "source format override")
	return cmd
}

func convertCmd() *cobra.Command {
	var fromName, toName, out string
	var compact bool
	cmd := &cobra.Command{
		Use:   "convert <file>",
		Short: "Re-serialize a document into another format",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			src, err := serializerFor(path, fromName)
			if err != nil {
				return err
			}
			if toName == "" && out != "" {
				toName = strings.TrimPrefix(filepath.Ext(out), ".")
			}
			dst, err := serializerByName(toName)
			if err != nil {
				return err
			}
			fio := skemafile.OSFileIO()
			text, err := fio.ReadText(context.Background(), path)
			if err != nil {
				return err
			}
			v, err := src.Parse(text)
			if err != nil {
				return fmt.Errorf("parse %s as %s: %w", path, src.FormatName(), err)
			}
			converted, err := dst.Stringify(orderVersionFirst(v), compact)
			if err != nil {
				return fmt.Errorf("stringify as %s: %w", dst.FormatName(), err)
			}
			if out == "" {
				fmt.Print(converted)
				return nil
			}
			if err := fio.WriteText(context.Background(), out, converted); err != nil {
				return err
			}
			log.Info().Str("from", src.FormatName()).Str("to", dst.FormatName()).
				Str("out", out).Msg("converted")
			return nil
		},
	}
	addFormatFlag(cmd.Flags(), &fromName, "from", "source format override")
	addFormatFlag(cmd.Flags(), &toName, "to", "target format")
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&compact, "compact", false, "emit compact output")
	return cmd
}

// orderVersionFirst rebuilds versioned objects as ordered documents so the
// version tag stays the first serialized key across formats.
func orderVersionFirst(v any) any {
	obj, ok := v.(map[string]any)
	if !ok {
		return v
	}
	ver, present := obj[skemafile.VersionKey]
	if !present {
		return v
	}
	doc := skemafile.NewDocument()
	doc.Set(skemafile.VersionKey, ver)
	keys := make([]string, 0, len(obj))
	for k := range obj {
		if k != skemafile.VersionKey {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	for _, k := range keys {
		doc.Set(k, obj[k])
	}
	return doc
}

func serializerFor(path, override string) (skemafile.Serializer, error) {
	if override != "" {
		return serializerByName(override)
	}
	return serializerByName(strings.TrimPrefix(filepath.Ext(path), "."))
}

func serializerByName(name string) (skemafile.Serializer, error) {
	switch strings.ToLower(name) {
	case "json":
		return jsonformat.New(), nil
	case "yaml", "yml":
		return yamlformat.New(), nil
	case "toml":
		return tomlformat.New(), nil
	case "jwcc", "jsonc", "hujson":
		return jwccformat.New(), nil
	case "":
		return nil, fmt.Errorf("cannot detect format; pass an explicit format flag")
	default:
		return nil, fmt.Errorf("unknown format %q (json, yaml, toml, jwcc)", name)
	}
}
