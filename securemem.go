package bdap

// securezero overwrites buf with zero bytes. The runtime may still retain
// copies the compiler made along the way; best effort is the most any
// language-level zeroing can promise.
func securezero(buf []byte) {
	for i := range buf {
		buf[i] = 0
	}
}
