package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/zurustar/ippcode/pkg/logger"
	"github.com/zurustar/ippcode/pkg/script"
	"github.com/zurustar/ippcode/pkg/stats"
)

var (
	// ErrParameter 引数の誤り、または禁止された組み合わせ
	ErrParameter = errors.New("invalid parameter")
	// ErrDuplicateOutput 同じ統計ファイルが複数回指定された
	ErrDuplicateOutput = errors.New("duplicate statistics output file")
)

// Config はコマンドライン引数から解析された設定を保持する
type Config struct {
	StatsRequests []stats.Request // 統計グループ（指定順）
	Input         string          // 入力ファイル（空なら標準入力）
	Encoding      string          // 入力の文字コード（auto, utf-8, shift_jis など）
	LogLevel      string          // ログレベル（debug, info, warn, error）
	ShowHelp      bool            // ヘルプ表示フラグ
}

const statsFlag = "stats"

// 値を取るフラグ（"-l warn" のように次の引数を値として消費する）
var valueFlags = map[string]bool{
	"log-level": true,
	"l":         true,
	"input":     true,
	"i":         true,
	"encoding":  true,
	"e":         true,
}

// ParseArgs コマンドライン引数を解析してConfigを返す
// --stats=FILE 以降の統計パラメータは次の --stats= までそのグループに属する
// それ以外のフラグは位置に関係なくFlagSetで解析する
func ParseArgs(args []string) (*Config, error) {
	config := &Config{}

	// --help は単独でのみ指定可能
	for _, arg := range args {
		if isHelp(arg) {
			if len(args) != 1 {
				return nil, fmt.Errorf("%w: --help cannot be combined with other parameters", ErrParameter)
			}
			config.ShowHelp = true
			return config, nil
		}
	}

	// 引数を統計グループとその他のフラグに振り分ける
	requests, flagArgs, err := splitArgs(args)
	if err != nil {
		return nil, err
	}
	config.StatsRequests = requests

	fs := flag.NewFlagSet("parse", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.LogLevel, "log-level", "", "ログレベル（debug, info, warn, error）")
	fs.StringVar(&config.LogLevel, "l", "", "ログレベル（短縮形）")
	fs.StringVar(&config.Input, "input", "", "入力ファイル")
	fs.StringVar(&config.Input, "i", "", "入力ファイル（短縮形）")
	fs.StringVar(&config.Encoding, "encoding", "", "入力の文字コード")
	fs.StringVar(&config.Encoding, "e", "", "入力の文字コード（短縮形）")

	if err := fs.Parse(flagArgs); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParameter, err)
	}

	// 位置引数は受け付けない
	if fs.NArg() > 0 {
		return nil, fmt.Errorf("%w: unexpected argument %q", ErrParameter, fs.Arg(0))
	}

	// 環境変数からの設定（コマンドラインフラグが優先）
	if config.LogLevel == "" {
		config.LogLevel = strings.ToLower(os.Getenv("LOG_LEVEL"))
	}
	if config.LogLevel == "" {
		config.LogLevel = logger.DefaultLevel
	}
	if config.Encoding == "" {
		config.Encoding = os.Getenv("IPPCODE_ENCODING")
	}
	if config.Encoding == "" {
		config.Encoding = script.EncodingAuto
	}

	// ログレベルの検証
	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLogLevels[config.LogLevel] {
		return nil, fmt.Errorf("%w: invalid log level: %s (must be debug, info, warn, or error)", ErrParameter, config.LogLevel)
	}

	// 文字コードの検証
	if !script.ValidEncoding(config.Encoding) {
		return nil, fmt.Errorf("%w: unsupported encoding: %s", ErrParameter, config.Encoding)
	}

	return config, nil
}

// splitArgs 統計グループを組み立て、残りの引数をFlagSet用に返す
func splitArgs(args []string) ([]stats.Request, []string, error) {
	var requests []stats.Request
	var flags []string
	seen := make(map[string]bool)

	for i := 0; i < len(args); i++ {
		arg := args[i]
		name, value, hasValue := splitFlag(arg)

		switch {
		case name == statsFlag:
			if !hasValue || value == "" {
				return nil, nil, fmt.Errorf("%w: %s requires a file name (--stats=FILE)", ErrParameter, arg)
			}
			if seen[value] {
				return nil, nil, fmt.Errorf("%w: %s", ErrDuplicateOutput, value)
			}
			seen[value] = true
			requests = append(requests, stats.Request{File: value})

		case valueFlags[name]:
			flags = append(flags, arg)
			// 次の引数が値である可能性をチェック（-l debug のような場合）
			if !hasValue && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				i++
				flags = append(flags, args[i])
			}

		case name != "":
			m, err := stats.ParseMetric(arg)
			if err != nil {
				// 未知のフラグはFlagSetに任せてエラーにする
				flags = append(flags, arg)
				continue
			}
			if len(requests) == 0 {
				return nil, nil, fmt.Errorf("%w: %s must follow --stats=FILE", ErrParameter, arg)
			}
			last := &requests[len(requests)-1]
			last.Metrics = append(last.Metrics, m)

		default:
			// 位置引数
			flags = append(flags, arg)
		}
	}

	return requests, flags, nil
}

// splitFlag "--name=value" を名前と値に分ける（フラグでなければ名前は空）
func splitFlag(arg string) (name, value string, hasValue bool) {
	s, ok := strings.CutPrefix(arg, "--")
	if !ok {
		s, ok = strings.CutPrefix(arg, "-")
	}
	if !ok || s == "" {
		return "", "", false
	}
	name, value, hasValue = strings.Cut(s, "=")
	return name, value, hasValue
}

func isHelp(arg string) bool {
	switch arg {
	case "--help", "-help", "-h", "--h":
		return true
	}
	return false
}

// PrintHelp ヘルプメッセージを表示
func PrintHelp(w io.Writer) {
	fmt.Fprint(w, `parse - IPPcode24 to XML translator

標準入力（または --input）からIPPcode24のソースを読み込み、
XML表現を標準出力に書き出す。

Usage:
  parse [options] [--stats=FILE [metrics...]]... < source.ipp

Options:
  -i, --input <path>          標準入力の代わりにファイルから読み込む
  -e, --encoding <name>       入力の文字コード: auto, utf-8, shift_jis, ...（デフォルト: auto）
  -l, --log-level <level>     ログレベル: debug, info, warn, error（デフォルト: warn）
  -h, --help                  このヘルプを表示（他のパラメータとは併用不可）

Statistics:
  --stats=FILE                統計グループを開始し、以降の項目をFILEに書き出す
  --loc                       命令数（ヘッダを除く）
  --comments                  コメントを含む行数
  --labels                    一意なラベル数
  --jumps                     ジャンプ命令とRETURNの数
  --fwjumps                   前方ジャンプの数
  --backjumps                 後方ジャンプの数
  --badjumps                  未定義ラベルへのジャンプの数
  --frequent                  最も多く使われた命令（出現数の降順、同数はアルファベット順）
  --print=TEXT                TEXTをそのまま出力
  --eol                       改行を出力

Environment Variables:
  LOG_LEVEL=<level>           ログレベル
  IPPCODE_ENCODING=<name>     入力の文字コード

Exit codes:
  0    成功
  10   パラメータの誤り、または禁止された組み合わせ
  11   入力ファイルを開けない、または標準入力が端末
  12   出力ファイルを開けない、または統計ファイルの重複
  21   ヘッダ .IPPcode24 がない、または誤っている
  22   未知の命令コード
  23   その他の字句・構文エラー
  99   内部エラー

Examples:
  parse < prog.ipp > prog.xml
  parse --input prog.ipp --stats=s.txt --loc --print=jumps: --jumps --eol
  parse --stats=a.txt --frequent --stats=b.txt --labels < prog.ipp
`)
}
