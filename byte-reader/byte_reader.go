package bytereader

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	streamio "github.com/usherasnick/readbytes/stream-io"
)

// BufferSize 单次读取的缓冲区容量.
const BufferSize = 10

// Mode 读取方式
type Mode int

const (
	// ModeSingle 只调用一次Read, 拿到多少算多少.
	ModeSingle Mode = iota
	// ModeFull 读到缓冲区满或者EOF为止.
	ModeFull
)

func (m Mode) String() string {
	switch m {
	case ModeSingle:
		return "single"
	case ModeFull:
		return "full"
	default:
		return "Mode(" + strconv.Itoa(int(m)) + ")"
	}
}

// ParseMode 解析 "single" / "full".
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "single":
		return ModeSingle, nil
	case "full":
		return ModeFull, nil
	default:
		return ModeSingle, fmt.Errorf("unknown read mode %q", s)
	}
}

// Reader 读取文件的前BufferSize个字节并输出.
type Reader struct {
	out  io.Writer
	mode Mode

	// OnOpenFailure 打开文件失败时被调用, 默认直接终止进程.
	OnOpenFailure func(err *OpenError)
}

// Option Reader配置项
type Option func(*Reader)

// WithMode 设置读取方式.
func WithMode(m Mode) Option {
	return func(r *Reader) {
		r.mode = m
	}
}

// WithOpenFailureHandler 替换打开失败时的处理函数.
func WithOpenFailureHandler(fn func(err *OpenError)) Option {
	return func(r *Reader) {
		r.OnOpenFailure = fn
	}
}

// NewReader 新建Reader对象, 结果写到out.
func NewReader(out io.Writer, opts ...Option) *Reader {
	r := &Reader{
		out:           out,
		mode:          ModeSingle,
		OnOpenFailure: abort,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// 不依赖log.Fatal退出: 全局日志级别高于fatal时它什么都不做
func abort(err *OpenError) {
	if e := log.WithLevel(zerolog.FatalLevel); e != nil {
		e.Err(err.Err).Str("path", err.Path).Msg("failed to open file")
	} else {
		fmt.Fprintln(os.Stderr, err.Error())
	}
	os.Exit(1)
}

// ReadBytes 打开path, 读取至多BufferSize个字节, 输出实际读到的部分.
// 打开失败交给OnOpenFailure处理 (默认终止进程); Read失败则返回*ReadError, 不输出任何内容.
func (r *Reader) ReadBytes(path string) error {
	b, err := Peek(path, r.mode)
	if err != nil {
		var oe *OpenError
		if errors.As(err, &oe) {
			r.OnOpenFailure(oe)
			return oe
		}
		log.Debug().Err(err).Str("path", path).Msg("read failed")
		return err
	}
	log.Debug().Str("path", path).Int("n", len(b)).Str("mode", r.mode.String()).Msg("read done")

	_, err = fmt.Fprintf(r.out, "The bytes: %s\n", FormatBytes(b))
	return err
}

func fill(src io.Reader, buf []byte, mode Mode) (int, error) {
	if mode == ModeFull {
		return streamio.ReadFull(src, buf)
	}
	return streamio.ReadOnce(src, buf)
}

// Peek 打开path并读取至多BufferSize个字节, 返回实际读到的部分.
// 打开失败返回*OpenError, Read失败返回*ReadError. 文件句柄在返回前关闭.
func Peek(path string, mode Mode) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &OpenError{Path: path, Err: err}
	}
	defer f.Close() // nolint

	var buf [BufferSize]byte
	n, err := fill(f, buf[:], mode)
	if err != nil {
		return nil, &ReadError{Path: path, Err: err}
	}
	out := make([]byte, n)
	copy(out, buf[:n])
	return out, nil
}

// FormatBytes 按 [1, 2, 3] 的格式输出字节值.
func FormatBytes(b []byte) string {
	var sb strings.Builder
	sb.WriteByte('[')
	for i, c := range b {
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(strconv.Itoa(int(c)))
	}
	sb.WriteByte(']')
	return sb.String()
}
