// Package protoutils converts between Go values and the structpb payloads exchanged with the
// remote planning services.
package protoutils

import (
	"reflect"
	"strings"

	"github.com/go-viper/mapstructure/v2"
	"github.com/pkg/errors"
	"google.golang.org/protobuf/types/known/structpb"
)

// ErrNilResponse is returned when a remote call succeeds but carries no payload.
var ErrNilResponse = errors.New("received nil response from remote service")

// StructToStructPb converts a struct or a map-like object into a structpb.Struct.
func StructToStructPb(data interface{}) (*structpb.Struct, error) {
	m, err := InterfaceToMap(data)
	if err != nil {
		return nil, err
	}
	return structpb.NewStruct(m)
}

// InterfaceToMap attempts to coerce an interface into a form acceptable by structpb.NewStruct.
// Expects a struct or a map-like object.
func InterfaceToMap(data interface{}) (map[string]interface{}, error) {
	if data == nil {
		return nil, errors.New("no data passed in")
	}
	t := reflect.TypeOf(data)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Struct:
		return structToMap(data)
	case reflect.Map:
		return marshalMap(data)
	default:
		return nil, errors.Errorf("data of type %T not a struct or a map-like object", data)
	}
}

// DecodeStruct decodes a structpb.Struct into out, which must be a pointer. Keys are matched
// against `json` tags. Numbers arrive as float64 and are converted to the integer kinds of out.
func DecodeStruct(in *structpb.Struct, out interface{}) error {
	if in == nil {
		return ErrNilResponse
	}
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName: "json",
		Result:  out,
	})
	if err != nil {
		return err
	}
	return errors.Wrap(decoder.Decode(in.AsMap()), "decoding remote payload")
}

func toInterface(data interface{}) (interface{}, error) {
	if data == nil {
		return nil, nil
	}
	value := reflect.ValueOf(data)
	t := value.Type()
	if t.Kind() == reflect.Ptr {
		if value.IsNil() {
			return nil, nil
		}
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.Struct:
		return structToMap(data)
	case reflect.Map:
		return marshalMap(data)
	case reflect.Slice, reflect.Array:
		if t.Elem().Kind() == reflect.Uint8 {
			return data, nil
		}
		return marshalSlice(data)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return reflect.Indirect(value).Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return reflect.Indirect(value).Uint(), nil
	case reflect.Float32, reflect.Float64:
		return reflect.Indirect(value).Float(), nil
	case reflect.String:
		return reflect.Indirect(value).String(), nil
	case reflect.Bool:
		return reflect.Indirect(value).Bool(), nil
	default:
		return data, nil
	}
}

// structToMap attempts to coerce a struct into a form acceptable by grpc.
func structToMap(data interface{}) (map[string]interface{}, error) {
	t := reflect.TypeOf(data)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, errors.Errorf("data of type %T is not a struct", data)
	}
	res := map[string]interface{}{}
	value := reflect.Indirect(reflect.ValueOf(data))
	for i := 0; i < t.NumField(); i++ {
		sField := t.Field(i)
		if !sField.IsExported() {
			continue
		}
		tag := sField.Tag.Get("json")
		if tag == "-" {
			continue
		}
		key := sField.Name
		if name, _, _ := strings.Cut(tag, ","); name != "" {
			key = name
		}

		data, err := toInterface(value.Field(i).Interface())
		if err != nil {
			return nil, err
		}
		res[key] = data
	}
	return res, nil
}

// marshalMap attempts to coerce maps of string keys into a form acceptable by grpc.
func marshalMap(data interface{}) (map[string]interface{}, error) {
	s := reflect.Indirect(reflect.ValueOf(data))
	if s.Kind() != reflect.Map {
		return nil, errors.Errorf("data of type %T is not a map", data)
	}

	iter := s.MapRange()
	result := map[string]interface{}{}
	var err error
	for iter.Next() {
		k := iter.Key()
		if k.Kind() != reflect.String {
			return nil, errors.Errorf("map keys of type %v are not strings", k.Kind())
		}
		result[k.String()], err = toInterface(iter.Value().Interface())
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

// marshalSlice attempts to coerce list data into a form acceptable by grpc.
func marshalSlice(data interface{}) ([]interface{}, error) {
	s := reflect.Indirect(reflect.ValueOf(data))
	if s.Kind() != reflect.Slice && s.Kind() != reflect.Array {
		return nil, errors.Errorf("data of type %T is not a slice", data)
	}

	newList := make([]interface{}, 0, s.Len())
	for i := 0; i < s.Len(); i++ {
		data, err := toInterface(s.Index(i).Interface())
		if err != nil {
			return nil, err
		}
		newList = append(newList, data)
	}
	return newList, nil
}
