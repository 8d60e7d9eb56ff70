package console

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

// Prompter читает ответы пользователя построчно.
type Prompter struct {
	in  *bufio.Scanner
	out io.Writer
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewScanner(in), out: out}
}

// Ask выводит вопрос и возвращает введённую строку без пробелов по краям.
// Пустой ввод возвращает def. io.EOF означает, что ввод закончился.
func (p *Prompter) Ask(question, def string) (string, error) {
	prefix := question + ": "
	if def != "" {
		prefix = fmt.Sprintf("%s [%s]: ", question, def)
	}

	answer, err := p.ReadLine(prefix)
	if err != nil {
		return "", err
	}
	if answer == "" {
		return def, nil
	}

	return answer, nil
}

// ReadLine выводит prefix и читает одну строку.
func (p *Prompter) ReadLine(prefix string) (string, error) {
	fmt.Fprint(p.out, prefix)

	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}

	return strings.TrimSpace(p.in.Text()), nil
}

// Confirm спрашивает подтверждение; согласием считаются только y и yes.
// Закончившийся ввод считается отказом.
func (p *Prompter) Confirm(question string) (bool, error) {
	answer, err := p.Ask(question+" [y/N]", "")
	if errors.Is(err, io.EOF) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
