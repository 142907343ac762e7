package lsp

import "io"

// Stdio joins a reader and a writer into the stream jsonrpc2 expects.
// Close is a no-op: the process owns stdin and stdout.
func Stdio(in io.Reader, out io.Writer) io.ReadWriteCloser {
	return &stdioReadWriteCloser{read: in, write: out}
}

type stdioReadWriteCloser struct {
	read  io.Reader
	write io.Writer
}

func (s *stdioReadWriteCloser) Read(p []byte) (int, error)  { return s.read.Read(p) }
func (s *stdioReadWriteCloser) Write(p []byte) (int, error) { return s.write.Write(p) }
func (s *stdioReadWriteCloser) Close() error                { return nil }
