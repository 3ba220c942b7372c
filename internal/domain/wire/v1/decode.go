package wirev1

import (
	"encoding/binary"
	"math/big"

	orderv1 "github.com/muhammadchandra19/ring-settlement/internal/domain/order/v1"
	"github.com/muhammadchandra19/ring-settlement/pkg/errors"
)

func decodeError(message, field string) error {
	return errors.NewErrorDetails(message, string(errors.WireFormatInvalid), field)
}

type blobReader struct {
	blob []byte
}

// Cursor arithmetic runs in int: blobs can exceed 64 KiB, so advancing a
// uint16 offset past a length byte near 0xFFFF would wrap back onto the
// reserved zero byte instead of failing the bounds check.
func (r *blobReader) slice(offset, length int, field string) ([]byte, error) {
	end := offset + length
	if end > len(r.blob) {
		return nil, decodeError("field data out of blob bounds", field)
	}
	return r.blob[offset:end], nil
}

func (r *blobReader) address(offset uint16, field string) (orderv1.Address, error) {
	var a orderv1.Address
	data, err := r.slice(int(offset), 20, field)
	if err != nil {
		return a, err
	}
	copy(a[:], data)
	return a, nil
}

func (r *blobReader) uint16At(offset uint16, field string) (uint16, error) {
	data, err := r.slice(int(offset), 2, field)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(data), nil
}

func (r *blobReader) uint64At(offset uint16, field string) (uint64, error) {
	data, err := r.slice(int(offset), 8, field)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(data), nil
}

func (r *blobReader) amount(offset uint16, field string) (*big.Int, error) {
	lengthByte, err := r.slice(int(offset), 1, field)
	if err != nil {
		return nil, err
	}
	data, err := r.slice(int(offset)+1, int(lengthByte[0]), field)
	if err != nil {
		return nil, err
	}
	return new(big.Int).SetBytes(data), nil
}

func (r *blobReader) boolAt(offset uint16, field string) (bool, error) {
	data, err := r.slice(int(offset), 1, field)
	if err != nil {
		return false, err
	}
	return data[0] != 0, nil
}

func (r *blobReader) signature(offset uint16, field string) (orderv1.Signature, error) {
	var sig orderv1.Signature

	header, err := r.slice(int(offset), 2, field)
	if err != nil {
		return sig, err
	}
	sig.Algorithm = orderv1.SignatureAlgorithm(header[0])

	cursor := int(offset) + 2
	publicKey, err := r.slice(cursor, int(header[1]), field)
	if err != nil {
		return sig, err
	}
	cursor += int(header[1])

	lengthByte, err := r.slice(cursor, 1, field)
	if err != nil {
		return sig, err
	}
	cursor++
	raw, err := r.slice(cursor, int(lengthByte[0]), field)
	if err != nil {
		return sig, err
	}

	if len(publicKey) > 0 {
		sig.PublicKey = append([]byte(nil), publicKey...)
	}
	if len(raw) > 0 {
		sig.Bytes = append([]byte(nil), raw...)
	}
	return sig, nil
}

// Decode parses a compact batch blob. Absent order fields resolve to their
// protocol defaults, with the given token as the default fee token.
func Decode(data []byte, protocolFeeToken orderv1.Address) (*Batch, error) {
	if len(data) < headerSize {
		return nil, decodeError("batch shorter than header", "header")
	}
	if data[0] != FormatVersion {
		return nil, decodeError("unsupported format version", "version")
	}

	numOrders := int(binary.BigEndian.Uint16(data[1:3]))
	numRings := int(binary.BigEndian.Uint16(data[3:5]))
	spendableSlots := int(binary.BigEndian.Uint16(data[5:7]))

	cursor := headerSize
	tablesEnd := cursor + numOrders*fieldCount*2 + numRings*ringEntrySize
	if len(data) < tablesEnd+4 {
		return nil, decodeError("batch shorter than its tables", "header")
	}

	blobLength := int(binary.BigEndian.Uint32(data[tablesEnd : tablesEnd+4]))
	blob := data[tablesEnd+4:]
	if len(blob) != blobLength {
		return nil, decodeError("blob length mismatch", "blob")
	}
	if blobLength > 0 && blob[0] != 0 {
		return nil, decodeError("blob must start with the reserved zero byte", "blob")
	}
	reader := &blobReader{blob: blob}

	orders := make([]*orderv1.Order, 0, numOrders)
	for i := 0; i < numOrders; i++ {
		offsets := make([]uint16, fieldCount)
		for f := 0; f < fieldCount; f++ {
			offsets[f] = binary.BigEndian.Uint16(data[cursor : cursor+2])
			cursor += 2
		}

		order, err := decodeOrder(reader, offsets)
		if err != nil {
			return nil, err
		}
		order.ResolveDefaults(protocolFeeToken)
		orders = append(orders, order)
	}

	rings := make([][]int, 0, numRings)
	for i := 0; i < numRings; i++ {
		size := int(data[cursor])
		if size < 1 || size > maxRingOrders {
			return nil, decodeError("ring size out of range", "rings")
		}
		ring := make([]int, 0, size)
		for j := 0; j < size; j++ {
			index := int(data[cursor+1+j])
			if index >= numOrders {
				return nil, decodeError("ring references an unknown order", "rings")
			}
			ring = append(ring, index)
		}
		cursor += ringEntrySize
		rings = append(rings, ring)
	}

	return &Batch{
		Orders:         orders,
		Rings:          rings,
		SpendableSlots: spendableSlots,
	}, nil
}

func decodeOrder(reader *blobReader, offsets []uint16) (*orderv1.Order, error) {
	order := &orderv1.Order{}
	var err error

	readAddress := func(field int, name string, target *orderv1.Address) {
		if err != nil || offsets[field] == 0 {
			return
		}
		*target, err = reader.address(offsets[field], name)
	}
	readUint16 := func(field int, name string, target *uint16) {
		if err != nil || offsets[field] == 0 {
			return
		}
		*target, err = reader.uint16At(offsets[field], name)
	}
	readAmount := func(field int, name string, target **big.Int) {
		if err != nil || offsets[field] == 0 {
			return
		}
		*target, err = reader.amount(offsets[field], name)
	}
	readSignature := func(field int, name string, target *orderv1.Signature) {
		if err != nil || offsets[field] == 0 {
			return
		}
		*target, err = reader.signature(offsets[field], name)
	}

	readUint16(fieldVersion, "version", &order.Version)
	readAddress(fieldOwner, "owner", &order.Owner)
	readAddress(fieldTokenSell, "tokenSell", &order.TokenSell)
	readAddress(fieldTokenBuy, "tokenBuy", &order.TokenBuy)
	readAmount(fieldAmountSell, "amountSell", &order.AmountSell)
	readAmount(fieldAmountBuy, "amountBuy", &order.AmountBuy)

	if err == nil && offsets[fieldValidSince] != 0 {
		order.ValidSince, err = reader.uint64At(offsets[fieldValidSince], "validSince")
	}
	if err == nil && offsets[fieldValidUntil] != 0 {
		order.ValidUntil, err = reader.uint64At(offsets[fieldValidUntil], "validUntil")
	}
	if err == nil && offsets[fieldAllOrNone] != 0 {
		order.AllOrNone, err = reader.boolAt(offsets[fieldAllOrNone], "allOrNone")
	}

	readAddress(fieldFeeToken, "feeToken", &order.FeeToken)
	readAmount(fieldFeeAmount, "feeAmount", &order.FeeAmount)

	if err == nil && offsets[fieldWaiveFeePercentage] != 0 {
		var raw uint16
		raw, err = reader.uint16At(offsets[fieldWaiveFeePercentage], "waiveFeePercentage")
		order.WaiveFeePercentage = int16(raw)
	}

	readUint16(fieldTokenSellFeePercentage, "tokenSellFeePercentage", &order.TokenSellFeePercentage)
	readUint16(fieldTokenBuyFeePercentage, "tokenBuyFeePercentage", &order.TokenBuyFeePercentage)
	readAddress(fieldWalletAddress, "walletAddress", &order.WalletAddress)
	readUint16(fieldWalletSplitPercentage, "walletSplitPercentage", &order.WalletSplitPercentage)
	readAddress(fieldTokenRecipient, "tokenRecipient", &order.TokenRecipient)
	readAddress(fieldBroker, "broker", &order.Broker)
	readAddress(fieldDualAuthAddress, "dualAuthAddress", &order.DualAuthAddress)
	readSignature(fieldSignature, "signature", &order.Signature)
	readSignature(fieldDualAuthSignature, "dualAuthSignature", &order.DualAuthSignature)

	if err != nil {
		return nil, err
	}
	if order.AmountSell == nil {
		order.AmountSell = new(big.Int)
	}
	if order.AmountBuy == nil {
		order.AmountBuy = new(big.Int)
	}
	return order, nil
}
