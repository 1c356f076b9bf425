package record

import (
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"google.golang.org/protobuf/encoding/protowire"

	"holdem-hu/card"
	"holdem-hu/holdem"
)

// Binary layout of a hand record, protobuf wire compatible:
//
//	message HandRecord {
//	  string hand_id = 1;  bytes deal_id = 2;  sint64 seed = 3;
//	  int32 level = 4;  int64 small_blind = 5;  int64 big_blind = 6;
//	  int32 button = 7;  repeated Player players = 8;
//	  repeated Action actions = 9;  bytes burns = 10;  bytes board = 11;
//	  repeated Showdown showdown = 12;  repeated Pot pots = 13;
//	  int32 termination = 14;  sint64 unix_sec = 15;  int32 nanos = 16;
//	  bytes deck = 17;
//	}
//
// Cards are one byte each, the same encoding as card.Card.
const (
	fHandID      protowire.Number = 1
	fDealID      protowire.Number = 2
	fSeed        protowire.Number = 3
	fLevel       protowire.Number = 4
	fSmallBlind  protowire.Number = 5
	fBigBlind    protowire.Number = 6
	fButton      protowire.Number = 7
	fPlayers     protowire.Number = 8
	fActions     protowire.Number = 9
	fBurns       protowire.Number = 10
	fBoard       protowire.Number = 11
	fShowdown    protowire.Number = 12
	fPots        protowire.Number = 13
	fTermination protowire.Number = 14
	fUnixSec     protowire.Number = 15
	fNanos       protowire.Number = 16
	fDeck        protowire.Number = 17
)

// ErrMalformed is returned for binary input that cannot be decoded.
var ErrMalformed = errors.New("malformed binary hand record")

// EncodeBinary appends the wire form of rec to b.
func EncodeBinary(b []byte, rec holdem.HandRecord) []byte {
	b = appendString(b, fHandID, rec.HandID)
	b = appendBytes(b, fDealID, rec.DealID[:])
	b = appendSint(b, fSeed, rec.Seed)
	b = appendUint(b, fLevel, uint64(rec.Level))
	b = appendSint(b, fSmallBlind, rec.SmallBlind)
	b = appendSint(b, fBigBlind, rec.BigBlind)
	b = appendUint(b, fButton, uint64(rec.Button))
	for _, p := range rec.Players {
		b = appendMessage(b, fPlayers, encodePlayer(nil, p))
	}
	for _, a := range rec.Actions {
		b = appendMessage(b, fActions, encodeAction(nil, a))
	}
	b = appendCards(b, fBurns, rec.Burns)
	b = appendCards(b, fBoard, rec.Board)
	for _, s := range rec.Showdown {
		b = appendMessage(b, fShowdown, encodeShowdown(nil, s))
	}
	for _, p := range rec.Pots {
		b = appendMessage(b, fPots, encodePot(nil, p))
	}
	b = appendUint(b, fTermination, uint64(rec.Termination))
	b = appendSint(b, fUnixSec, rec.Timestamp.Unix())
	b = appendUint(b, fNanos, uint64(rec.Timestamp.Nanosecond()))
	b = appendCards(b, fDeck, rec.Deck)
	return b
}

// DecodeBinary parses the output of EncodeBinary. Unknown fields are skipped.
func DecodeBinary(b []byte) (holdem.HandRecord, error) {
	var rec holdem.HandRecord
	var sec, nanos int64
	err := walk(b, func(num protowire.Number, v value) error {
		switch num {
		case fHandID:
			rec.HandID = string(v.bytes)
		case fDealID:
			id, err := uuid.FromBytes(v.bytes)
			if err != nil {
				return errors.Wrap(ErrMalformed, err.Error())
			}
			rec.DealID = id
		case fSeed:
			rec.Seed = protowire.DecodeZigZag(v.varint)
		case fLevel:
			rec.Level = int(v.varint)
		case fSmallBlind:
			rec.SmallBlind = protowire.DecodeZigZag(v.varint)
		case fBigBlind:
			rec.BigBlind = protowire.DecodeZigZag(v.varint)
		case fButton:
			rec.Button = int(v.varint)
		case fPlayers:
			p, err := decodePlayer(v.bytes)
			if err != nil {
				return err
			}
			rec.Players = append(rec.Players, p)
		case fActions:
			a, err := decodeAction(v.bytes)
			if err != nil {
				return err
			}
			rec.Actions = append(rec.Actions, a)
		case fBurns:
			rec.Burns = card.FromBytes(v.bytes)
		case fBoard:
			rec.Board = card.FromBytes(v.bytes)
		case fShowdown:
			s, err := decodeShowdown(v.bytes)
			if err != nil {
				return err
			}
			rec.Showdown = append(rec.Showdown, s)
		case fPots:
			p, err := decodePot(v.bytes)
			if err != nil {
				return err
			}
			rec.Pots = append(rec.Pots, p)
		case fTermination:
			rec.Termination = holdem.Termination(v.varint)
		case fUnixSec:
			sec = protowire.DecodeZigZag(v.varint)
		case fNanos:
			nanos = int64(v.varint)
		case fDeck:
			rec.Deck = card.FromBytes(v.bytes)
		}
		return nil
	})
	if err != nil {
		return holdem.HandRecord{}, err
	}
	rec.Timestamp = time.Unix(sec, nanos).UTC()
	if !holdem.ValidHandID(rec.HandID) {
		return holdem.HandRecord{}, errors.Wrapf(ErrMalformed, "hand id %q", rec.HandID)
	}
	return rec, nil
}

func encodePlayer(b []byte, p holdem.PlayerRecord) []byte {
	b = appendUint(b, 1, uint64(p.Seat))
	b = appendString(b, 2, p.ID)
	b = appendSint(b, 3, p.StartStack)
	b = appendSint(b, 4, p.Blind)
	b = appendCards(b, 5, p.Hole)
	b = appendSint(b, 6, p.EndStack)
	b = appendSint(b, 7, p.Net)
	return b
}

func decodePlayer(b []byte) (holdem.PlayerRecord, error) {
	var p holdem.PlayerRecord
	err := walk(b, func(num protowire.Number, v value) error {
		switch num {
		case 1:
			p.Seat = int(v.varint)
		case 2:
			p.ID = string(v.bytes)
		case 3:
			p.StartStack = protowire.DecodeZigZag(v.varint)
		case 4:
			p.Blind = protowire.DecodeZigZag(v.varint)
		case 5:
			p.Hole = card.FromBytes(v.bytes)
		case 6:
			p.EndStack = protowire.DecodeZigZag(v.varint)
		case 7:
			p.Net = protowire.DecodeZigZag(v.varint)
		}
		return nil
	})
	return p, errors.Wrap(err, "player")
}

func encodeAction(b []byte, a holdem.ActionRecord) []byte {
	b = appendUint(b, 1, uint64(a.Seq))
	b = appendUint(b, 2, uint64(a.Street))
	b = appendUint(b, 3, uint64(a.Seat))
	b = appendUint(b, 4, uint64(a.Type))
	b = appendSint(b, 5, a.Amount)
	b = appendSint(b, 6, a.Added)
	b = appendSint(b, 7, a.StreetTotal)
	b = appendSint(b, 8, a.StackAfter)
	if a.AllIn {
		b = appendUint(b, 9, 1)
	}
	return b
}

func decodeAction(b []byte) (holdem.ActionRecord, error) {
	var a holdem.ActionRecord
	err := walk(b, func(num protowire.Number, v value) error {
		switch num {
		case 1:
			a.Seq = int(v.varint)
		case 2:
			a.Street = holdem.Street(v.varint)
		case 3:
			a.Seat = int(v.varint)
		case 4:
			a.Type = holdem.ActionType(v.varint)
		case 5:
			a.Amount = protowire.DecodeZigZag(v.varint)
		case 6:
			a.Added = protowire.DecodeZigZag(v.varint)
		case 7:
			a.StreetTotal = protowire.DecodeZigZag(v.varint)
		case 8:
			a.StackAfter = protowire.DecodeZigZag(v.varint)
		case 9:
			a.AllIn = protowire.DecodeBool(v.varint)
		}
		return nil
	})
	return a, errors.Wrap(err, "action")
}

func encodeShowdown(b []byte, s holdem.ShowdownHand) []byte {
	b = appendUint(b, 1, uint64(s.Seat))
	b = appendCards(b, 2, s.Hole)
	b = appendCards(b, 3, s.Best)
	b = appendUint(b, 4, uint64(s.Category))
	b = appendUint(b, 5, uint64(s.Score))
	return b
}

func decodeShowdown(b []byte) (holdem.ShowdownHand, error) {
	var s holdem.ShowdownHand
	err := walk(b, func(num protowire.Number, v value) error {
		switch num {
		case 1:
			s.Seat = int(v.varint)
		case 2:
			s.Hole = card.FromBytes(v.bytes)
		case 3:
			s.Best = card.FromBytes(v.bytes)
		case 4:
			s.Category = holdem.Category(v.varint)
		case 5:
			s.Score = uint16(v.varint)
		}
		return nil
	})
	return s, errors.Wrap(err, "showdown")
}

func encodePot(b []byte, p holdem.PotRecord) []byte {
	b = appendSint(b, 1, p.Amount)
	b = appendPackedInts(b, 2, p.Eligible)
	b = appendPackedInts(b, 3, p.Winners)
	if len(p.Shares) > 0 {
		var packed []byte
		for _, s := range p.Shares {
			packed = protowire.AppendVarint(packed, protowire.EncodeZigZag(s))
		}
		b = appendBytes(b, 4, packed)
	}
	return b
}

func decodePot(b []byte) (holdem.PotRecord, error) {
	var p holdem.PotRecord
	err := walk(b, func(num protowire.Number, v value) error {
		switch num {
		case 1:
			p.Amount = protowire.DecodeZigZag(v.varint)
		case 2, 3:
			ints, err := unpack(v.bytes)
			if err != nil {
				return err
			}
			seats := make([]int, len(ints))
			for i, x := range ints {
				seats[i] = int(x)
			}
			if num == 2 {
				p.Eligible = seats
			} else {
				p.Winners = seats
			}
		case 4:
			ints, err := unpack(v.bytes)
			if err != nil {
				return err
			}
			p.Shares = make([]int64, len(ints))
			for i, x := range ints {
				p.Shares[i] = protowire.DecodeZigZag(x)
			}
		}
		return nil
	})
	return p, errors.Wrap(err, "pot")
}

// value holds a decoded field; only the member matching its wire type is set.
type value struct {
	varint uint64
	bytes  []byte
}

func walk(b []byte, fn func(protowire.Number, value) error) error {
	for len(b) > 0 {
		num, typ, n := protowire.ConsumeTag(b)
		if n < 0 {
			return errors.Wrap(ErrMalformed, protowire.ParseError(n).Error())
		}
		b = b[n:]

		var v value
		switch typ {
		case protowire.VarintType:
			v.varint, n = protowire.ConsumeVarint(b)
		case protowire.BytesType:
			v.bytes, n = protowire.ConsumeBytes(b)
		default:
			n = protowire.ConsumeFieldValue(num, typ, b)
			if n < 0 {
				return errors.Wrapf(ErrMalformed, "field %d: %v", num, protowire.ParseError(n))
			}
			b = b[n:]
			continue
		}
		if n < 0 {
			return errors.Wrapf(ErrMalformed, "field %d: %v", num, protowire.ParseError(n))
		}
		b = b[n:]
		if err := fn(num, v); err != nil {
			return err
		}
	}
	return nil
}

func unpack(b []byte) ([]uint64, error) {
	var out []uint64
	for len(b) > 0 {
		x, n := protowire.ConsumeVarint(b)
		if n < 0 {
			return nil, errors.Wrap(ErrMalformed, protowire.ParseError(n).Error())
		}
		out = append(out, x)
		b = b[n:]
	}
	return out, nil
}

func appendUint(b []byte, num protowire.Number, v uint64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, v)
}

func appendSint(b []byte, num protowire.Number, v int64) []byte {
	if v == 0 {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.VarintType)
	return protowire.AppendVarint(b, protowire.EncodeZigZag(v))
}

func appendBytes(b []byte, num protowire.Number, v []byte) []byte {
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendBytes(b, v)
}

func appendString(b []byte, num protowire.Number, v string) []byte {
	if v == "" {
		return b
	}
	b = protowire.AppendTag(b, num, protowire.BytesType)
	return protowire.AppendString(b, v)
}

func appendMessage(b []byte, num protowire.Number, msg []byte) []byte {
	return appendBytes(b, num, msg)
}

func appendCards(b []byte, num protowire.Number, cards card.CardList) []byte {
	if len(cards) == 0 {
		return b
	}
	return appendBytes(b, num, cards.Bytes())
}

func appendPackedInts(b []byte, num protowire.Number, v []int) []byte {
	if len(v) == 0 {
		return b
	}
	var packed []byte
	for _, x := range v {
		packed = protowire.AppendVarint(packed, uint64(x))
	}
	return appendBytes(b, num, packed)
}
