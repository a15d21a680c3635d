package normalize

import "bytes"

// heifBrands are ISO-BMFF major brands used by HEIC, HEIF and AVIF files.
var heifBrands = [][]byte{
	[]byte("heic"), []byte("heix"), []byte("hevc"), []byte("hevx"),
	[]byte("heim"), []byte("heis"), []byte("mif1"), []byte("msf1"),
	[]byte("avif"),
}

// heifBrand reports the major brand if raw starts with an ISO-BMFF ftyp box
// naming a HEIF-family brand.
func heifBrand(raw []byte) (string, bool) {
	if len(raw) < 12 || !bytes.Equal(raw[4:8], []byte("ftyp")) {
		return "", false
	}
	major := raw[8:12]
	for _, b := range heifBrands {
		if bytes.Equal(major, b) {
			return string(major), true
		}
	}
	return "", false
}
