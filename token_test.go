package fatshell

import (
	"errors"
	"reflect"
	"testing"
)

func TestTokenize(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantName string
		wantArgv []string
		wantErr  bool
	}{
		{name: "empty line", input: "", wantName: "", wantArgv: nil},
		{name: "only whitespace", input: " \t ", wantName: "", wantArgv: nil},
		{name: "bare command", input: "fsinfo", wantName: "fsinfo"},
		{name: "command with args", input: "open hello.txt rw", wantName: "open", wantArgv: []string{"hello.txt", "rw"}},
		{name: "tabs as separators", input: "ls\tfoo", wantName: "ls", wantArgv: []string{"foo"}},
		{name: "collapsed separators", input: "  rm   a    b ", wantName: "rm", wantArgv: []string{"a", "b"}},
		{name: "quoted argument keeps spaces", input: `write f.txt 0 "hello world"`, wantName: "write", wantArgv: []string{"f.txt", "0", "hello world"}},
		{name: "empty quoted argument", input: `write f.txt 0 ""`, wantName: "write", wantArgv: []string{"f.txt", "0", ""}},
		{name: "quote glued to word", input: `write f "a b"c`, wantName: "write", wantArgv: []string{"f", "a bc"}},
		{name: "unclosed quote", input: `write f.txt 0 "oops`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			name, argv, err := Tokenize(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrUnclosedQuote) {
					t.Errorf("Tokenize(%q) error = %v, want ErrUnclosedQuote", tt.input, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Tokenize(%q) error = %v", tt.input, err)
			}
			if name != tt.wantName {
				t.Errorf("Tokenize(%q) name = %q, want %q", tt.input, name, tt.wantName)
			}
			if len(argv) != 0 || len(tt.wantArgv) != 0 {
				if !reflect.DeepEqual(argv, tt.wantArgv) {
					t.Errorf("Tokenize(%q) argv = %#v, want %#v", tt.input, argv, tt.wantArgv)
				}
			}
		})
	}
}
