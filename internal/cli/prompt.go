package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// ErrInputCancelled is returned when input is canceled by context.
var ErrInputCancelled = errors.New("input canceled")

// Confirm asks a yes/no question and reports the answer. A cancelled
// context or closed input counts as "no" via ErrInputCancelled, which
// callers treat as a declined prompt.
func Confirm(ctx context.Context, in io.Reader, out io.Writer, question string) (bool, error) {
	fmt.Fprintf(out, "%s [y/N]: ", PromptStyle.Render(question))

	type result struct {
		err   error
		value string
	}
	resultCh := make(chan result, 1)

	go func() {
		line, err := bufio.NewReader(in).ReadString('\n')
		resultCh <- result{value: line, err: err}
	}()

	select {
	case <-ctx.Done():
		return false, ErrInputCancelled
	case r := <-resultCh:
		if r.err != nil {
			return false, ErrInputCancelled
		}
		answer := strings.ToLower(strings.TrimSpace(r.value))
		return answer == "y" || answer == "yes", nil
	}
}
