package wirev1

import (
	"encoding/binary"
	"math"
	"math/big"

	orderv1 "github.com/muhammadchandra19/ring-settlement/internal/domain/order/v1"
	"github.com/muhammadchandra19/ring-settlement/pkg/errors"
)

func encodeError(message, field string) error {
	return errors.NewErrorDetails(message, string(errors.WireFormatInvalid), field)
}

type blobWriter struct {
	// blob[0] is the reserved zero byte so that offset 0 can mean absent.
	blob []byte
}

func newBlobWriter() *blobWriter {
	return &blobWriter{blob: []byte{0}}
}

func (w *blobWriter) write(data []byte) (uint16, error) {
	offset := len(w.blob)
	if offset+len(data) > math.MaxUint16 {
		return 0, encodeError("blob exceeds addressable size", "blob")
	}
	w.blob = append(w.blob, data...)
	return uint16(offset), nil
}

// Encode produces the compact batch encoding of the given orders and
// rings. Zero-valued optional fields are omitted so they decode back to
// their protocol defaults.
func Encode(batch *Batch) ([]byte, error) {
	if len(batch.Orders) > math.MaxUint16 {
		return nil, encodeError("too many orders", "header")
	}
	if len(batch.Rings) > math.MaxUint16 {
		return nil, encodeError("too many rings", "header")
	}

	writer := newBlobWriter()
	tables := make([]byte, 0, len(batch.Orders)*fieldCount*2)

	for _, order := range batch.Orders {
		offsets, err := encodeOrder(writer, order)
		if err != nil {
			return nil, err
		}
		for _, offset := range offsets {
			tables = binary.BigEndian.AppendUint16(tables, offset)
		}
	}

	ringTable := make([]byte, 0, len(batch.Rings)*ringEntrySize)
	for _, ring := range batch.Rings {
		if len(ring) < 1 || len(ring) > maxRingOrders {
			return nil, encodeError("ring size out of range", "rings")
		}
		entry := make([]byte, ringEntrySize)
		entry[0] = byte(len(ring))
		for i, index := range ring {
			if index < 0 || index >= len(batch.Orders) || index > math.MaxUint8 {
				return nil, encodeError("ring references an unknown order", "rings")
			}
			entry[1+i] = byte(index)
		}
		ringTable = append(ringTable, entry...)
	}

	out := make([]byte, 0, headerSize+len(tables)+len(ringTable)+4+len(writer.blob))
	out = append(out, FormatVersion)
	out = binary.BigEndian.AppendUint16(out, uint16(len(batch.Orders)))
	out = binary.BigEndian.AppendUint16(out, uint16(len(batch.Rings)))
	out = binary.BigEndian.AppendUint16(out, uint16(batch.SpendableSlots))
	out = append(out, tables...)
	out = append(out, ringTable...)
	out = binary.BigEndian.AppendUint32(out, uint32(len(writer.blob)))
	out = append(out, writer.blob...)
	return out, nil
}

func encodeOrder(writer *blobWriter, order *orderv1.Order) ([]uint16, error) {
	offsets := make([]uint16, fieldCount)
	var err error

	put := func(field int, data []byte) {
		if err != nil || data == nil {
			return
		}
		offsets[field], err = writer.write(data)
	}
	putAddress := func(field int, a orderv1.Address) {
		if a.IsZero() {
			return
		}
		put(field, a[:])
	}
	putUint16 := func(field int, v uint16) {
		if v == 0 {
			return
		}
		put(field, binary.BigEndian.AppendUint16(nil, v))
	}
	putUint64 := func(field int, v uint64) {
		if v == 0 {
			return
		}
		put(field, binary.BigEndian.AppendUint64(nil, v))
	}
	putAmount := func(field int, v *big.Int, name string) {
		if v == nil || v.Sign() == 0 {
			return
		}
		raw := v.Bytes()
		if len(raw) > math.MaxUint8 {
			err = encodeError("amount too large", name)
			return
		}
		put(field, append([]byte{byte(len(raw))}, raw...))
	}
	putSignature := func(field int, sig orderv1.Signature, name string) {
		if sig.IsZero() {
			return
		}
		if len(sig.PublicKey) > math.MaxUint8 || len(sig.Bytes) > math.MaxUint8 {
			err = encodeError("signature too large", name)
			return
		}
		data := []byte{byte(sig.Algorithm), byte(len(sig.PublicKey))}
		data = append(data, sig.PublicKey...)
		data = append(data, byte(len(sig.Bytes)))
		data = append(data, sig.Bytes...)
		put(field, data)
	}

	putUint16(fieldVersion, order.Version)
	putAddress(fieldOwner, order.Owner)
	putAddress(fieldTokenSell, order.TokenSell)
	putAddress(fieldTokenBuy, order.TokenBuy)
	putAmount(fieldAmountSell, order.AmountSell, "amountSell")
	putAmount(fieldAmountBuy, order.AmountBuy, "amountBuy")
	putUint64(fieldValidSince, order.ValidSince)
	putUint64(fieldValidUntil, order.ValidUntil)
	if order.AllOrNone {
		put(fieldAllOrNone, []byte{1})
	}
	putAddress(fieldFeeToken, order.FeeToken)
	putAmount(fieldFeeAmount, order.FeeAmount, "feeAmount")
	putUint16(fieldWaiveFeePercentage, uint16(order.WaiveFeePercentage))
	putUint16(fieldTokenSellFeePercentage, order.TokenSellFeePercentage)
	putUint16(fieldTokenBuyFeePercentage, order.TokenBuyFeePercentage)
	putAddress(fieldWalletAddress, order.WalletAddress)
	putUint16(fieldWalletSplitPercentage, order.WalletSplitPercentage)
	putAddress(fieldTokenRecipient, order.TokenRecipient)
	putAddress(fieldBroker, order.Broker)
	putAddress(fieldDualAuthAddress, order.DualAuthAddress)
	putSignature(fieldSignature, order.Signature, "signature")
	putSignature(fieldDualAuthSignature, order.DualAuthSignature, "dualAuthSignature")

	if err != nil {
		return nil, err
	}
	return offsets, nil
}
