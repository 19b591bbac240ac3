package imgsrc

import "github.com/pkg/errors"

// Open resolves path to a Source: a raw file/block device, or a VMDK
// sparse extent if the first 512 bytes carry the VMDK magic; then, if the
// resulting byte stream carries a GPT, binds to the partition that looks
// like the filesystem payload. A plain image with no GPT at all is treated
// as the filesystem in its entirety, which is the common case for a
// mke2fs-produced image or a raw partition device node.
func Open(path string) (Source, error) {
	raw, err := openRaw(path)
	if err != nil {
		return nil, err
	}

	var src Source = raw
	first512 := make([]byte, 512)
	if _, err := raw.ReadAt(first512, 0); err == nil && isVMDK(first512) {
		v, err := openVMDK(raw)
		if err != nil {
			raw.Close()
			return nil, errors.Wrap(err, "imgsrc: open vmdk")
		}
		src = v
	}

	if offset, size, ok, err := findRootPartition(src); err != nil {
		src.Close()
		return nil, errors.Wrap(err, "imgsrc: locate gpt partition")
	} else if ok {
		src = newWindow(src, offset, size)
	}

	return src, nil
}
