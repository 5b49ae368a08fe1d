package zelmethod

import (
	"context"
	"strings"
	"unicode/utf8"

	"github.com/reusee/zel/zelval"
)

// MaxTextBytes bounds the text produced by built-in members.
const MaxTextBytes = 1 << 26

var textTable = func() *Table {
	t := NewTable()

	t.Method("length", textFunc(func(s string, _ []zelval.Value) (zelval.Value, error) {
		return zelval.Int(int64(utf8.RuneCountInString(s))), nil
	}))
	t.Property("length", func(recv zelval.Value) (zelval.Value, error) {
		return zelval.Int(int64(utf8.RuneCountInString(recv.AsText()))), nil
	})

	t.Method("isEmpty", textFunc(func(s string, _ []zelval.Value) (zelval.Value, error) {
		return zelval.Bool(s == ""), nil
	}))
	t.Property("empty", func(recv zelval.Value) (zelval.Value, error) {
		return zelval.Bool(recv.AsText() == ""), nil
	})

	t.Method("toString", func(_ context.Context, recv zelval.Value, _ []zelval.Value) (zelval.Value, error) {
		return recv, nil
	})

	t.Method("substring", textFunc(func(s string, args []zelval.Value) (zelval.Value, error) {
		runes := []rune(s)
		return substring(runes, args[0].AsInt(), int64(len(runes)))
	}), IntParam)
	t.Method("substring", textFunc(func(s string, args []zelval.Value) (zelval.Value, error) {
		return substring([]rune(s), args[0].AsInt(), args[1].AsInt())
	}), IntParam, IntParam)

	t.Method("charAt", textFunc(func(s string, args []zelval.Value) (zelval.Value, error) {
		runes := []rune(s)
		i := args[0].AsInt()
		if i < 0 || i >= int64(len(runes)) {
			return zelval.Null, errorf(ErrIndexOutOfRange, "charAt(%d) of length %d", i, len(runes))
		}
		return zelval.Text(string(runes[i])), nil
	}), IntParam)

	t.Method("indexOf", textFunc(func(s string, args []zelval.Value) (zelval.Value, error) {
		return zelval.Int(runeIndex(s, args[0].AsText(), 0)), nil
	}), TextParam)
	t.Method("indexOf", textFunc(func(s string, args []zelval.Value) (zelval.Value, error) {
		return zelval.Int(runeIndex(s, args[0].AsText(), args[1].AsInt())), nil
	}), TextParam, IntParam)

	t.Method("contains", textPredicate(strings.Contains), TextParam)
	t.Method("startsWith", textPredicate(strings.HasPrefix), TextParam)
	t.Method("endsWith", textPredicate(strings.HasSuffix), TextParam)

	t.Method("toUpperCase", textMap(strings.ToUpper))
	t.Method("toLowerCase", textMap(strings.ToLower))
	t.Method("trim", textMap(strings.TrimSpace))

	t.Method("concat", textFunc(func(s string, args []zelval.Value) (zelval.Value, error) {
		return zelval.Text(s + args[0].AsText()), nil
	}), TextParam)

	t.Method("replace", textFunc(func(s string, args []zelval.Value) (zelval.Value, error) {
		return zelval.Text(strings.ReplaceAll(s, args[0].AsText(), args[1].AsText())), nil
	}), TextParam, TextParam)

	t.Method("repeat", textFunc(func(s string, args []zelval.Value) (zelval.Value, error) {
		n := args[0].AsInt()
		if n < 0 {
			return zelval.Null, errorf(ErrIndexOutOfRange, "negative repeat count %d", n)
		}
		if n > 0 && int64(len(s)) > MaxTextBytes/n {
			return zelval.Null, errorf(ErrIndexOutOfRange, "repeat count %d of length %d exceeds %d bytes", n, len(s), MaxTextBytes)
		}
		return zelval.Text(strings.Repeat(s, int(n))), nil
	}), IntParam)

	t.Method("compareTo", textFunc(func(s string, args []zelval.Value) (zelval.Value, error) {
		return zelval.Int(int64(strings.Compare(s, args[0].AsText()))), nil
	}), TextParam)

	addEquality(t)

	return t
}()

func textFunc(fn func(s string, args []zelval.Value) (zelval.Value, error)) Func {
	return func(_ context.Context, recv zelval.Value, args []zelval.Value) (zelval.Value, error) {
		return fn(recv.AsText(), args)
	}
}

func textPredicate(fn func(s, sub string) bool) Func {
	return textFunc(func(s string, args []zelval.Value) (zelval.Value, error) {
		return zelval.Bool(fn(s, args[0].AsText())), nil
	})
}

func textMap(fn func(string) string) Func {
	return textFunc(func(s string, _ []zelval.Value) (zelval.Value, error) {
		return zelval.Text(fn(s)), nil
	})
}

func substring(runes []rune, begin, end int64) (zelval.Value, error) {
	if begin < 0 || end > int64(len(runes)) || begin > end {
		return zelval.Null, errorf(ErrIndexOutOfRange, "substring(%d, %d) of length %d", begin, end, len(runes))
	}
	return zelval.Text(string(runes[begin:end])), nil
}

// runeIndex returns the rune offset of sub in s at or after from, or -1.
func runeIndex(s, sub string, from int64) int64 {
	if from < 0 {
		from = 0
	}
	offset := 0
	for i := int64(0); i < from; i++ {
		if offset >= len(s) {
			return -1
		}
		_, size := utf8.DecodeRuneInString(s[offset:])
		offset += size
	}
	idx := strings.Index(s[offset:], sub)
	if idx < 0 {
		return -1
	}
	return from + int64(utf8.RuneCountInString(s[offset:offset+idx]))
}

func addEquality(t *Table) {
	t.Method("equals", func(_ context.Context, recv zelval.Value, args []zelval.Value) (zelval.Value, error) {
		return zelval.Bool(zelval.Equal(recv, args[0])), nil
	}, AnyParam)
}
