package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	flag "github.com/spf13/pflag"
	"github.com/spf13/viper"

	bytereader "github.com/usherasnick/readbytes/byte-reader"
)

const defaultPath = "libigcc/version.py"

func bindFlags(fs *flag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix("READBYTES")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	fs.String("path", defaultPath, "file to read")
	fs.String("mode", bytereader.ModeSingle.String(), "read mode: single or full")
	fs.String("log-level", zerolog.InfoLevel.String(), "log level")

	for _, key := range []string{"path", "mode", "log-level"} {
		if err := v.BindPFlag(key, fs.Lookup(key)); err != nil {
			return nil, err
		}
	}
	return v, nil
}

func newRootCmd(out io.Writer, opts ...bytereader.Option) (*cobra.Command, error) {
	cmd := &cobra.Command{
		Use:           "readbytes",
		Short:         "Print the first bytes of a file",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
	}
	v, err := bindFlags(cmd.Flags())
	if err != nil {
		return nil, fmt.Errorf("error while binding flags: %w", err)
	}

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		lvl, err := zerolog.ParseLevel(v.GetString("log-level"))
		if err != nil {
			return fmt.Errorf("error while parsing log level: %w", err)
		}
		zerolog.SetGlobalLevel(lvl)

		mode, err := bytereader.ParseMode(v.GetString("mode"))
		if err != nil {
			return err
		}

		r := bytereader.NewReader(out, append([]bytereader.Option{bytereader.WithMode(mode)}, opts...)...)
		// 只有Read失败可以忽略, 打开失败必须以非0退出
		if err := r.ReadBytes(v.GetString("path")); err != nil {
			var oe *bytereader.OpenError
			if errors.As(err, &oe) {
				return err
			}
			log.Debug().Err(err).Msg("discarding read error")
		}
		return nil
	}
	return cmd, nil
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	cmd, err := newRootCmd(os.Stdout)
	if err == nil {
		err = cmd.Execute()
	}
	if err != nil {
		// 全局级别可能已被--log-level调高
		fmt.Fprintln(os.Stderr, "readbytes:", err)
		os.Exit(1)
	}
}
