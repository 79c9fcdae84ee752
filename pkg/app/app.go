package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/zurustar/ippcode/pkg/cli"
	"github.com/zurustar/ippcode/pkg/compiler"
	"github.com/zurustar/ippcode/pkg/compiler/ast"
	"github.com/zurustar/ippcode/pkg/fileutil"
	"github.com/zurustar/ippcode/pkg/logger"
	"github.com/zurustar/ippcode/pkg/script"
	"github.com/zurustar/ippcode/pkg/stats"
)

var (
	// ErrInput 入力を開けない、読めない、または標準入力が端末
	ErrInput = errors.New("cannot read input")
	// ErrOutput 出力先に書き込めない
	ErrOutput = errors.New("cannot write output")
)

// Application はアプリケーションのメインロジックを管理する
type Application struct {
	config *cli.Config
	log    *slog.Logger
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
	sink   stats.Sink
}

// Option Applicationの設定を変更する
type Option func(*Application)

// WithStdin 標準入力の代わりに使うReaderを指定
func WithStdin(r io.Reader) Option {
	return func(app *Application) { app.stdin = r }
}

// WithStdout XMLの出力先を指定
func WithStdout(w io.Writer) Option {
	return func(app *Application) { app.stdout = w }
}

// WithStderr ログの出力先を指定
func WithStderr(w io.Writer) Option {
	return func(app *Application) { app.stderr = w }
}

// WithSink 統計の出力先を指定（デフォルトはファイル）
func WithSink(sink stats.Sink) Option {
	return func(app *Application) { app.sink = sink }
}

// New Applicationを作成
func New(opts ...Option) *Application {
	app := &Application{
		stdin:  os.Stdin,
		stdout: os.Stdout,
		stderr: os.Stderr,
		sink:   stats.FileSink{},
	}
	for _, opt := range opts {
		opt(app)
	}
	return app
}

// Run アプリケーションを実行
// 統計ファイルを書き終えてからXMLを標準出力に書き出す
func (app *Application) Run(args []string) error {
	// 1. コマンドライン引数の解析
	if err := app.parseArgs(args); err != nil {
		return fmt.Errorf("failed to parse args: %w", err)
	}

	if app.config.ShowHelp {
		cli.PrintHelp(app.stdout)
		return nil
	}

	// 2. ロガーの初期化
	if err := app.initLogger(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	app.log.Info("Application started", "stats_groups", len(app.config.StatsRequests))

	// 3. ソースの読み込み
	src, err := app.loadSource()
	if err != nil {
		return err
	}

	app.log.Info("Source loaded", "name", src.Name, "size", src.Size, "lines", len(src.Lines))
	app.log.Debug("Source content preview", "name", src.Name, "preview", truncate(src.Content, 100))

	// 4. XMLへの変換
	program, err := app.compile(src)
	if err != nil {
		return err
	}

	app.log.Info("Program translated successfully", "instructions", program.Len())
	app.log.Debug("Instructions generated", "instructions", formatInstructionsPreview(program, 10))

	// 5. 統計の出力（失敗した場合はXMLを出力しない）
	if err := app.writeStats(src); err != nil {
		return err
	}

	// 6. XMLの出力
	if _, err := io.WriteString(app.stdout, compiler.ToXML(program)); err != nil {
		return fmt.Errorf("%w: %w", ErrOutput, err)
	}

	app.log.Info("Application terminated normally")
	return nil
}

// parseArgs コマンドライン引数を解析
func (app *Application) parseArgs(args []string) error {
	config, err := cli.ParseArgs(args)
	if err != nil {
		return err
	}
	app.config = config
	return nil
}

// initLogger ロガーを初期化
func (app *Application) initLogger() error {
	if err := logger.InitLoggerTo(app.config.LogLevel, app.stderr); err != nil {
		return err
	}
	app.log = logger.GetLogger()
	return nil
}

// loadSource 入力ファイルまたは標準入力からソースを読み込む
func (app *Application) loadSource() (*script.Script, error) {
	loader := script.NewLoader(app.config.Encoding)

	if app.config.Input != "" {
		f, err := fileutil.OpenInput(app.config.Input)
		if err != nil {
			app.log.Error("Failed to open input", "path", app.config.Input, "error", err)
			return nil, fmt.Errorf("%w: %w", ErrInput, err)
		}
		defer f.Close()

		src, err := loader.Load(f.Name(), f)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInput, err)
		}
		return src, nil
	}

	// 端末からの対話入力は受け付けない
	if isTerminal(app.stdin) {
		return nil, fmt.Errorf("%w: standard input is a terminal (redirect a file or use --input)", ErrInput)
	}

	src, err := loader.Load("stdin", app.stdin)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInput, err)
	}
	return src, nil
}

// compile ソースをプログラムに変換
func (app *Application) compile(src *script.Script) (*ast.Program, error) {
	program, err := compiler.Compile(src.Lines)
	if err != nil {
		var ce *compiler.CompileError
		if errors.As(err, &ce) {
			app.log.Error("Translation failed",
				"phase", ce.Phase,
				"line", ce.Line,
				"column", ce.Column,
				"message", ce.Message)
			app.log.Debug("Translation failed at", "context", ce.Context)
		} else {
			app.log.Error("Translation failed", "error", err)
		}
		return nil, err
	}
	return program, nil
}

// writeStats 統計グループをそれぞれのファイルに書き出す
func (app *Application) writeStats(src *script.Script) error {
	if len(app.config.StatsRequests) == 0 {
		return nil
	}

	engine := stats.New(src.Lines)
	if err := stats.Report(context.Background(), engine, app.config.StatsRequests, app.sink); err != nil {
		app.log.Error("Failed to write statistics", "error", err)
		return fmt.Errorf("%w: %w", ErrOutput, err)
	}

	for _, req := range app.config.StatsRequests {
		app.log.Info("Statistics written", "file", req.File, "metrics", len(req.Metrics))
	}
	return nil
}

// isTerminal Readerが端末に接続されているか確認
func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return info.Mode()&os.ModeCharDevice != 0
}

// ExitCode エラーの種類に応じた終了コードを返す
func ExitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.Is(err, cli.ErrParameter):
		return 10
	case errors.Is(err, ErrInput):
		return 11
	case errors.Is(err, cli.ErrDuplicateOutput), errors.Is(err, ErrOutput):
		return 12
	case errors.Is(err, compiler.ErrMissingHeader):
		return 21
	case errors.Is(err, compiler.ErrUnknownOpcode):
		return 22
	case errors.Is(err, compiler.ErrSyntax):
		return 23
	default:
		return 99
	}
}

// truncate 文字列を指定した長さで切り詰める
func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}

// formatInstructionsPreview 命令のプレビューを生成（デバッグ用）
func formatInstructionsPreview(program *ast.Program, maxCount int) string {
	if program.Len() == 0 {
		return "[]"
	}

	count := program.Len()
	if count > maxCount {
		count = maxCount
	}

	var result string
	for i := 0; i < count; i++ {
		if i > 0 {
			result += ", "
		}
		in := program.Instructions[i]
		result += fmt.Sprintf("{%d: %s}", in.Order, in.Opcode)
	}

	if program.Len() > maxCount {
		result += fmt.Sprintf(", ... (%d more)", program.Len()-maxCount)
	}

	return "[" + result + "]"
}
