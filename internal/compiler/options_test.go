package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const optionsSrc = "rrr x = 1;\nmagadheera (x > 0) {\n  bahubali(x);\n}\n"

func TestCompileWithOptions(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want string
	}{
		{
			"none",
			Options{},
			"const x = 1;\nif ((x > 0)) {\nconsole.log(x);\n}",
		},
		{
			"format",
			Options{FormatOutput: true},
			"const x = 1;\nif ((x > 0)) {\n    console.log(x);\n}\n",
		},
		{
			"comments",
			Options{AddComments: true},
			"// Generated from TFI source code\n" +
				"// 1: rrr x = 1;\n" +
				"const x = 1;\n" +
				"// 2: magadheera (x > 0) {\n" +
				"if ((x > 0)) {\n" +
				"// 3: bahubali(x);\n" +
				"console.log(x);\n" +
				"}",
		},
		{
			"format_comments",
			Options{FormatOutput: true, AddComments: true},
			"// Generated from TFI source code\n" +
				"// 1: rrr x = 1;\n" +
				"const x = 1;\n" +
				"// 2: magadheera (x > 0) {\n" +
				"if ((x > 0)) {\n" +
				"    // 3: bahubali(x);\n" +
				"    console.log(x);\n" +
				"}\n",
		},
		{
			"minify",
			Options{MinifyOutput: true, FormatOutput: true, AddComments: true},
			"const x = 1;if ((x > 0)) {console.log(x);}",
		},
		{
			"strict",
			Options{StrictMode: true},
			"\"use strict\";\nconst x = 1;\nif ((x > 0)) {\nconsole.log(x);\n}",
		},
		{
			"strict_minify",
			Options{StrictMode: true, MinifyOutput: true},
			"\"use strict\";const x = 1;if ((x > 0)) {console.log(x);}",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := CompileWithOptions("test.tfi", []byte(optionsSrc), tt.opts)
			require.NoError(t, err)
			assert.Equal(t, tt.want, res.Code)
		})
	}
}

func TestZeroOptionsMatchCompile(t *testing.T) {
	src := []byte("pushpa n = 3; pokiri (n) { magadheera (n > 1) { bahubali(\"big\"); } karthikeya { bahubali(n); } }")
	code, err := Compile("test.tfi", src)
	require.NoError(t, err)
	res, err := CompileWithOptions("test.tfi", src, Options{})
	require.NoError(t, err)
	assert.Equal(t, code, res.Code)
}

func TestOptionsDoNotAffectValidation(t *testing.T) {
	all := Options{FormatOutput: true, AddComments: true, MinifyOutput: true, StrictMode: true}
	_, err := CompileWithOptions("test.tfi", []byte("bahubali();"), all)
	require.Error(t, err)
	assert.Equal(t, ValidateStage, err.(*Error).Stage)
}

func TestFormatNested(t *testing.T) {
	src := "rrr a = 1; pokiri (a) { magadheera (a) { bahubali(a); } karthikeya { bahubali(0); } }"
	res, err := CompileWithOptions("test.tfi", []byte(src), Options{FormatOutput: true})
	require.NoError(t, err)
	want := "const a = 1;\n" +
		"while (a) {\n" +
		"    if (a) {\n" +
		"        console.log(a);\n" +
		"    } else {\n" +
		"        console.log(0);\n" +
		"    }\n" +
		"}\n"
	assert.Equal(t, want, res.Code)
}

func TestCommentsOncePerLine(t *testing.T) {
	res, err := CompileWithOptions("test.tfi", []byte("rrr x = 10; bahubali(x);\n\n"), Options{AddComments: true})
	require.NoError(t, err)
	assert.Equal(t, "// Generated from TFI source code\n// 1: rrr x = 10; bahubali(x);\nconst x = 10;\nconsole.log(x);", res.Code)
}

func TestEmptyProgramOptions(t *testing.T) {
	res, err := CompileWithOptions("test.tfi", nil, Options{FormatOutput: true})
	require.NoError(t, err)
	assert.Equal(t, "", res.Code)

	res, err = CompileWithOptions("test.tfi", nil, Options{AddComments: true})
	require.NoError(t, err)
	assert.Equal(t, "// Generated from TFI source code", res.Code)
}
