// compileinfoprint is imported by the hfedash binaries for the side effect of
// printing the compileinfo to os.StdErr
package compileinfoprint

import "github.com/carbocation/hfedash/compileinfo"

func init() {
	compileinfo.PrintToStdErr()
}
