// Package env loads configuration from environment variables into tagged struct fields.
package env

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"time"

	"github.com/mikemcowie/brewing/pkg/errorkit"
	"github.com/mikemcowie/brewing/pkg/reflectkit"
)

const ErrLoadInvalidData errorkit.Error = "ErrLoadInvalidData"

// Lookup reads and parses the value of an environment variable as T.
func Lookup[T any](key string, opts ...LookupOption) (T, bool, error) {
	var conf lookupOptions
	for _, opt := range opts {
		opt.configure(&conf)
	}
	val, ok, err := lookupEnv(reflectkit.TypeOf[T](), key, conf)
	if err != nil || !ok {
		return *new(T), ok, err
	}
	return val.Interface().(T), true, nil
}

type LookupOption interface{ configure(*lookupOptions) }

type funcLookupOption func(*lookupOptions)

func (fn funcLookupOption) configure(opts *lookupOptions) { fn(opts) }

func DefaultValue(val string) LookupOption {
	return funcLookupOption(func(opts *lookupOptions) {
		opts.DefaultValue = &val
	})
}

func Required() LookupOption {
	return funcLookupOption(func(opts *lookupOptions) {
		opts.IsRequired = true
	})
}

// Load populates the exported fields of the struct behind ptr
// from the environment variables named in their `env` tags.
// The `default` and `required` tags are honoured as well.
func Load[T any](ptr *T) error {
	if ptr == nil {
		return ErrLoadInvalidData.F("nil value received")
	}
	rv := reflectkit.BaseValue(reflect.ValueOf(ptr))
	if rv.Kind() != reflect.Struct {
		return ErrLoadInvalidData.F("non-struct type received: %T", *ptr)
	}
	return loadVisitStruct(rv)
}

const envTagKey = "env"

func loadVisitStruct(rStruct reflect.Value) error {
	for i, numField := 0, rStruct.NumField(); i < numField; i++ {
		rStructField := rStruct.Type().Field(i)
		if !rStructField.IsExported() {
			continue
		}

		field := rStruct.Field(i)

		if field.Kind() == reflect.Struct {
			if err := loadVisitStruct(field); err != nil {
				return err
			}
			continue
		}

		key, ok := rStructField.Tag.Lookup(envTagKey)
		if !ok {
			continue
		}

		opts, err := lookupOptionsOf(rStructField.Tag)
		if err != nil {
			return err
		}

		val, ok, err := lookupEnv(field.Type(), key, opts)
		if err != nil {
			return errParsingEnvValue(rStructField, err)
		}
		if !ok {
			continue
		}
		field.Set(val)
	}
	return nil
}

func lookupOptionsOf(tag reflect.StructTag) (lookupOptions, error) {
	var opts lookupOptions
	if value, ok := tag.Lookup("default"); ok {
		opts.DefaultValue = &value
	}
	if value, ok := tag.Lookup("required"); ok {
		isRequired, err := strconv.ParseBool(value)
		if err != nil {
			return opts, err
		}
		opts.IsRequired = isRequired
	}
	return opts, nil
}

type lookupOptions struct {
	DefaultValue *string
	IsRequired   bool
}

func lookupEnv(typ reflect.Type, key string, opts lookupOptions) (reflect.Value, bool, error) {
	val, ok := os.LookupEnv(key)
	if !ok && opts.DefaultValue != nil {
		ok = true
		val = *opts.DefaultValue
	}
	if !ok {
		var err error
		if opts.IsRequired {
			err = errMissingEnvironmentVariable(key)
		}
		return reflect.Value{}, false, err
	}
	rv, err := parse(typ, val)
	if err != nil {
		return reflect.Value{}, false, err
	}
	return rv, true, nil
}

var durationType = reflectkit.TypeOf[time.Duration]()

func parse(typ reflect.Type, val string) (reflect.Value, error) {
	if typ == durationType {
		d, err := time.ParseDuration(val)
		if err != nil {
			return reflect.Value{}, err
		}
		return reflect.ValueOf(d), nil
	}
	rv := reflect.New(typ).Elem()
	switch typ.Kind() {
	case reflect.String:
		rv.SetString(val)
	case reflect.Bool:
		b, err := strconv.ParseBool(val)
		if err != nil {
			return reflect.Value{}, err
		}
		rv.SetBool(b)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n, err := strconv.ParseInt(val, 10, typ.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		rv.SetInt(n)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(val, 10, typ.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		rv.SetUint(n)
	case reflect.Float32, reflect.Float64:
		f, err := strconv.ParseFloat(val, typ.Bits())
		if err != nil {
			return reflect.Value{}, err
		}
		rv.SetFloat(f)
	default:
		return reflect.Value{}, fmt.Errorf("unsupported configuration field type: %s", typ.String())
	}
	return rv, nil
}

func errMissingEnvironmentVariable(key string) error {
	return fmt.Errorf("missing environment variable: %s", key)
}

func errParsingEnvValue(structField reflect.StructField, err error) error {
	return fmt.Errorf("error parsing the value for %s: %w", structField.Name, err)
}
