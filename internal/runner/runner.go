// Package runner は外部コマンドの実行を扱う
package runner

import (
	"bytes"
	"context"
	"io"
	"os"
	"os/exec"
	"strings"

	"github.com/cli/safeexec"
	"github.com/go-faster/errors"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/yacchi/eden-cli/internal/debug"
)

const (
	traceScopeRunner = "eden.runner"

	traceSpanExec = "eden.exec"

	traceAttrCommand = "eden.command"
	traceAttrArgs    = "eden.command_args"
)

// Runner は作業ディレクトリと追加環境変数を保持してコマンドを実行する
type Runner struct {
	dir    string
	env    []string
	stdout io.Writer
	stderr io.Writer
}

// Option は Runner の設定オプション
type Option func(*Runner)

// WithDir はコマンドの作業ディレクトリを設定する
func WithDir(dir string) Option {
	return func(r *Runner) {
		r.dir = dir
	}
}

// WithEnv はプロセス環境に追加する KEY=VALUE エントリを設定する
func WithEnv(env []string) Option {
	return func(r *Runner) {
		r.env = append(r.env, env...)
	}
}

// WithStdout は標準出力の書き込み先を設定する
func WithStdout(w io.Writer) Option {
	return func(r *Runner) {
		r.stdout = w
	}
}

// WithStderr は標準エラー出力の書き込み先を設定する
func WithStderr(w io.Writer) Option {
	return func(r *Runner) {
		r.stderr = w
	}
}

// New は Runner を作成する
func New(opts ...Option) *Runner {
	r := &Runner{
		stdout: os.Stdout,
		stderr: os.Stderr,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// LookPath はコマンドを PATH から安全に解決する
func (r *Runner) LookPath(name string) (string, error) {
	path, err := safeexec.LookPath(name)
	if err != nil {
		return "", errors.Wrapf(err, "command not found: %s", name)
	}
	return path, nil
}

func (r *Runner) command(ctx context.Context, name string, args ...string) (*exec.Cmd, error) {
	path, err := r.LookPath(name)
	if err != nil {
		return nil, err
	}
	debug.Log("exec", "command", name, "args", strings.Join(args, " "), "dir", r.dir)
	cmd := exec.CommandContext(ctx, path, args...)
	cmd.Dir = r.dir
	if len(r.env) > 0 {
		cmd.Env = append(os.Environ(), r.env...)
	}
	return cmd, nil
}

func startExecSpan(ctx context.Context, name string, args []string) (context.Context, trace.Span) {
	return otel.Tracer(traceScopeRunner).Start(ctx, traceSpanExec, trace.WithAttributes(
		attribute.String(traceAttrCommand, name),
		attribute.StringSlice(traceAttrArgs, args),
	))
}

func markSpanResult(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return
	}
	span.SetStatus(codes.Ok, "")
}

// Run はコマンドを実行し、出力をそのまま流す
func (r *Runner) Run(ctx context.Context, name string, args ...string) error {
	ctx, span := startExecSpan(ctx, name, args)
	defer span.End()

	cmd, err := r.command(ctx, name, args...)
	if err != nil {
		markSpanResult(span, err)
		return err
	}
	cmd.Stdout = r.stdout
	cmd.Stderr = r.stderr

	if err := cmd.Run(); err != nil {
		err = errors.Wrapf(err, "%s failed", name)
		markSpanResult(span, err)
		return err
	}
	markSpanResult(span, nil)
	return nil
}

// RunInput は標準入力に input を与えてコマンドを実行する
func (r *Runner) RunInput(ctx context.Context, input, name string, args ...string) error {
	ctx, span := startExecSpan(ctx, name, args)
	defer span.End()

	cmd, err := r.command(ctx, name, args...)
	if err != nil {
		markSpanResult(span, err)
		return err
	}
	cmd.Stdin = strings.NewReader(input)
	cmd.Stdout = r.stdout
	cmd.Stderr = r.stderr

	if err := cmd.Run(); err != nil {
		err = errors.Wrapf(err, "%s failed", name)
		markSpanResult(span, err)
		return err
	}
	markSpanResult(span, nil)
	return nil
}

// Output はコマンドを実行して標準出力を返す
// 失敗時は標準エラー出力の内容をエラーメッセージに含める
func (r *Runner) Output(ctx context.Context, name string, args ...string) (string, error) {
	ctx, span := startExecSpan(ctx, name, args)
	defer span.End()

	cmd, err := r.command(ctx, name, args...)
	if err != nil {
		markSpanResult(span, err)
		return "", err
	}
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg == "" {
			msg = err.Error()
		}
		err = errors.Wrapf(err, "%s: %s", name, msg)
		markSpanResult(span, err)
		return "", err
	}
	markSpanResult(span, nil)
	return strings.TrimSpace(stdout.String()), nil
}

// ExitCode はエラーからコマンドの終了コードを取り出す（取得できない場合は -1）
func ExitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}
