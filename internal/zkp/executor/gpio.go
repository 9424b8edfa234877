package executor

import (
	"encoding/binary"

	"github.com/stskeeps/risc0/internal/zkp/core"
	"github.com/stskeeps/risc0/internal/zkp/zkerr"
)

// GPIO word addresses the guest writes to trigger a host callback
// (spec.md 4.9). Values are arbitrary but fixed and must agree between
// guest and host builds; they live well above any realistic image size.
const (
	GpioCommit             uint32 = 0x7fff0000 / 4
	GpioFault              uint32 = 0x7fff0004 / 4
	GpioLog                uint32 = 0x7fff0008 / 4
	GpioSendRecvAddr       uint32 = 0x7fff000c / 4
	GpioSendRecvChannel    uint32 = 0x7fff0010 / 4
	GpioSendRecvSize       uint32 = 0x7fff0014 / 4
	GpioSha                uint32 = 0x7fff0018 / 4
	GpioInsecureShaCompress uint32 = 0x7fff001c / 4
	GpioInsecureShaHash     uint32 = 0x7fff0020 / 4
	GpioComputePoly         uint32 = 0x7fff0024 / 4
	GpioPolyEval            uint32 = 0x7fff0028 / 4
	GpioFfpu                uint32 = 0x7fff002c / 4
	GpioCycleCount          uint32 = 0x7fff0030 / 4
)

// IoHandler is the host side of guest<->host communication: the set of
// callbacks a GPIO write can trigger (spec.md 4.9).
type IoHandler interface {
	OnCommit(words []uint32) error
	OnFault(msg string) error
	OnSendRecv(channel uint32, data []byte) ([]byte, error)
	OnLog(cycle uint32, msg string)
}

// Dispatch inspects a word-aligned store address and, if it names a GPIO
// port, invokes the matching IoHandler callback and/or in-process
// computation, staging any reply into the guest input region via send.
// Returns false if addr does not name a GPIO port (an ordinary store).
func (mc *MachineContext) Dispatch(cycle uint32, addr uint32, value uint32) (bool, error) {
	switch addr {
	case GpioCommit:
		descAddr, descSize := mc.readDescriptor(value)
		buf := mc.loadRegionU32(descAddr, descSize)
		return true, mc.io.OnCommit(buf)

	case GpioFault:
		msg := mc.loadCString(value)
		return true, mc.io.OnFault(msg)

	case GpioLog:
		mc.io.OnLog(cycle, mc.loadCString(value))
		return true, nil

	case GpioSendRecvAddr:
		channel := mc.mem.LoadWord(GpioSendRecvChannel)
		size := mc.mem.LoadWord(GpioSendRecvSize)
		region := mc.loadRegionBytes(value, size)
		reply, err := mc.io.OnSendRecv(channel, region)
		if err != nil {
			return true, zkerr.Wrap(zkerr.HostIO, "executor: SENDRECV callback failed", err)
		}
		mc.sendToGuest(uint32sToBytes([]uint32{uint32(len(reply))}))
		mc.sendToGuest(reply)
		return true, nil

	case GpioSha:
		descAddr, descSize := mc.readDescriptor(value)
		words := mc.loadRegionU32(descAddr, descSize)
		digest := mc.sha.HashRawWords(words)
		mc.sendToGuest(digestBytes(digest))
		return true, nil

	case GpioInsecureShaCompress, GpioInsecureShaHash:
		// Cheaper benchmarking-only stand-ins (spec.md 4.9); both are
		// backed by FNV-1a rather than a second SHA-256 variant, matching
		// the "insecure" label's intent of being fast, not collision
		// resistant.
		descAddr, descSize := mc.readDescriptor(value)
		words := mc.loadRegionU32(descAddr, descSize)
		digest := fnv1aDigest(words)
		mc.sendToGuest(digestBytes(digest))
		return true, nil

	case GpioComputePoly:
		// Delegates to the circuit's poly_ext; wired once a concrete
		// Circuit is attached via SetPolyExt.
		if mc.polyExt == nil {
			return true, zkerr.New(zkerr.Internal, "executor: COMPUTE_POLY GPIO fired with no circuit attached")
		}
		result := mc.polyExt()
		mc.sendToGuest(fp4Bytes(result))
		return true, nil

	case GpioPolyEval:
		descAddr, descSize := mc.readDescriptor(value)
		words := mc.loadRegionU32(descAddr, descSize)
		result := evalBivariate(words)
		mc.sendToGuest(fp4Bytes(result))
		return true, nil

	case GpioFfpu:
		descAddr, descSize := mc.readDescriptor(value)
		words := mc.loadRegionU32(descAddr, descSize)
		result := mc.runFfpuDescriptor(words)
		mc.sendToGuest(fp4SliceBytes(result))
		return true, nil

	case GpioCycleCount:
		mc.sendToGuest(uint32sToBytes([]uint32{cycle}))
		return true, nil
	}
	return false, nil
}

func uint32sToBytes(words []uint32) []byte {
	buf := make([]byte, 4*len(words))
	for i, w := range words {
		binary.LittleEndian.PutUint32(buf[i*4:i*4+4], w)
	}
	return buf
}

func digestBytes(d core.Digest) []byte {
	return append([]byte(nil), d[:]...)
}

func fp4Bytes(v core.Fp4) []byte {
	return v.Bytes()
}

func fp4SliceBytes(vs []core.Fp4) []byte {
	buf := make([]byte, 0, 16*len(vs))
	for _, v := range vs {
		buf = append(buf, v.Bytes()...)
	}
	return buf
}

// fnv1aDigest hashes words with the 64-bit FNV-1a algorithm, padded out to
// a Digest-shaped buffer; it is never used for a security-bearing
// commitment, only the benchmarking-only INSECURESHA* GPIOs (spec.md 4.9).
func fnv1aDigest(words []uint32) core.Digest {
	const offset = uint64(14695981039346656037)
	const prime = uint64(1099511628211)
	h := offset
	for _, w := range words {
		b := uint32sToBytes([]uint32{w})
		for _, c := range b {
			h ^= uint64(c)
			h *= prime
		}
	}
	var d core.Digest
	binary.LittleEndian.PutUint64(d[0:8], h)
	binary.LittleEndian.PutUint64(d[8:16], h^prime)
	binary.LittleEndian.PutUint64(d[16:24], h^offset)
	binary.LittleEndian.PutUint64(d[24:32], h*prime+offset)
	return d
}
