package writer

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/hlmerscher/hack-toolchain-go/logger"
)

// XML writes value as indented XML followed by a newline.
func XML(out io.Writer, value any) error {
	result, err := xml.MarshalIndent(value, "", " ")
	if err != nil {
		return err
	}

	logger.Printf("%s\n", result)
	_, err = fmt.Fprintf(out, "%s\n", result)
	return err
}

// OutputPath swaps the extension of source for ext, which includes the dot.
func OutputPath(source, ext string) string {
	return strings.TrimSuffix(source, filepath.Ext(source)) + ext
}

// DirOutputPath names the single output of a whole directory after the
// directory itself, as in Pong/Pong.asm.
func DirOutputPath(dirname, ext string) string {
	dirname = filepath.Clean(dirname)
	return filepath.Join(dirname, filepath.Base(dirname)+ext)
}

func File(filename string, content string) error {
	fmt.Printf("output:\t%s\n", filename)
	return os.WriteFile(filename, []byte(content), 0666)
}
