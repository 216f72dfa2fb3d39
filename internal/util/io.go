package util

import (
	"bufio"
	"errors"
	"io/ioutil"
	"os"
	"time"
)

// ReadSource reads source code from the file named in opt.Src, or from
// stdin if no file was given. Reading from stdin races a short timeout
// (per the teacher's src/util/io.go) so a driver invoked with no
// arguments and nothing piped in fails fast instead of hanging.
func ReadSource(opt Options) (string, error) {
	if len(opt.Src) > 0 {
		b, err := ioutil.ReadFile(opt.Src)
		return string(b), err
	}

	c := make(chan string)
	cerr := make(chan error)

	go func(c chan string, cerr chan error) {
		defer close(c)
		defer close(cerr)
		reader := bufio.NewReader(os.Stdin)
		text, err := reader.ReadString(0)
		if err == nil {
			c <- text
		} else if len(text) > 0 {
			c <- text
		} else {
			cerr <- err
		}
	}(c, cerr)

	select {
	case <-time.After(500 * time.Millisecond):
		return "", errors.New("expected input from stdin, got none")
	case s := <-c:
		return s, nil
	case err := <-cerr:
		return "", err
	}
}
