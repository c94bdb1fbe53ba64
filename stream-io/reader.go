package streamio

import (
	"errors"
	"io"
)

/* Reading Rules

type Reader interface {
    Read(p []byte) (n int, err error)
}

1. A Read() call will read up to len(p) into p, when possible.
2. After a Read() call, n may be less then len(p).
3. Upon error, a Read() call may still return n bytes in transfer buffer p.
   For instance, reading from a TCP socket that is abruptly closed.
   Depending on your own use, you may choose to keep the bytes in p or just retry.
4. When a Read() call exhausts available data, a reader may return a non-zero n and err=io.EOF.
   However, depending on implementation, a reader may choose to return a non-zero n and err=nil at the end of stream.
   In that case, any subsequent read ops must return n=0, err=io.EOF.
5. A Read() call that returns n=0 and err=nil does not mean EOF as the next call to Read() may return more data.

*/

// ReadOnce 只调用一次Read, 不重试.
// 短读和EOF都不算错误, 返回的n满足 0 <= n <= len(buf).
func ReadOnce(r io.Reader, buf []byte) (int, error) {
	n, err := r.Read(buf)
	n = clamp(n, len(buf))
	if errors.Is(err, io.EOF) {
		return n, nil
	}
	return n, err
}

// ReadFull 反复读取直到buf被填满或者遇到EOF.
func ReadFull(r io.Reader, buf []byte) (int, error) {
	n, err := io.ReadFull(r, buf)
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		return n, nil
	}
	return n, err
}

// 不守规矩的Reader可能返回越界的n (rule 1)
func clamp(n, size int) int {
	if n < 0 {
		return 0
	}
	if n > size {
		return size
	}
	return n
}
