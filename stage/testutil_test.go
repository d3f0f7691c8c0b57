package stage

import "os"

func writeFileHelper(path, contents string) error {
	return os.WriteFile(path, []byte(contents), 0o644)
}
