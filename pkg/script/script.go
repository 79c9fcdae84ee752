package script

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/transform"

	"github.com/zurustar/ippcode/pkg/compiler/token"
)

// EncodingAuto はUTF-8として妥当ならそのまま、そうでなければShift-JISとして扱う
const EncodingAuto = "auto"

// Script はソースプログラムを表す
type Script struct {
	Name    string   // 入力名（ファイル名または "stdin"）
	Content string   // UTF-8に変換された内容
	Lines   []string // 行に分割した内容（改行コードは除去済み）
	Size    int64    // 元のバイト数
}

// Loader はソースの読み込みと文字コード変換を行う
type Loader struct {
	encoding string
}

// NewLoader Loaderを作成
// encodingは "auto" またはWHATWGのエンコーディング名（"utf-8", "shift_jis" など）
func NewLoader(encoding string) *Loader {
	if encoding == "" {
		encoding = EncodingAuto
	}
	return &Loader{encoding: encoding}
}

// Load 入力を最後まで読み込み、UTF-8に変換して行に分割する
func (l *Loader) Load(name string, r io.Reader) (*Script, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}

	content, err := l.decode(data)
	if err != nil {
		return nil, fmt.Errorf("failed to convert encoding of %s: %w", name, err)
	}

	return &Script{
		Name:    name,
		Content: content,
		Lines:   token.SplitLines(content),
		Size:    int64(len(data)),
	}, nil
}

// decode 指定されたエンコーディングでUTF-8に変換
func (l *Loader) decode(data []byte) (string, error) {
	enc, err := l.resolve(data)
	if err != nil {
		return "", err
	}
	if enc == nil {
		return string(data), nil
	}

	reader := transform.NewReader(bytes.NewReader(data), enc.NewDecoder())
	utf8Data, err := io.ReadAll(reader)
	if err != nil {
		return "", err
	}
	return string(utf8Data), nil
}

// resolve 変換に使うエンコーディングを決める（nilは無変換）
func (l *Loader) resolve(data []byte) (encoding.Encoding, error) {
	if strings.EqualFold(l.encoding, EncodingAuto) {
		if utf8.Valid(data) {
			return nil, nil
		}
		return japanese.ShiftJIS, nil
	}

	enc, err := htmlindex.Get(l.encoding)
	if err != nil {
		return nil, fmt.Errorf("unsupported encoding %q: %w", l.encoding, err)
	}
	return enc, nil
}

// ValidEncoding エンコーディング名が使用可能か確認
func ValidEncoding(name string) bool {
	if name == "" || strings.EqualFold(name, EncodingAuto) {
		return true
	}
	_, err := htmlindex.Get(name)
	return err == nil
}
