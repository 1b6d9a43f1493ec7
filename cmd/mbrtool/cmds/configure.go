package cmds

import (
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/mbrtool/mbrtool/pkg/config"
)

type configureIterator struct {
	cfgValue reflect.Value
	cfgType  reflect.Type
	i        int
}

func iterateConfiguration(conf *config.Config) *configureIterator {
	cfgValue := reflect.ValueOf(conf).Elem()
	cfgType := cfgValue.Type()

	return &configureIterator{cfgValue, cfgType, -1}
}

func (it *configureIterator) Next() bool {
	it.i++
	return it.i < it.cfgValue.NumField()
}

func (it *configureIterator) Field() (name string, field reflect.Value) {
	name = it.cfgType.Field(it.i).Tag.Get("yaml")
	if comma := strings.Index(name, ","); comma >= 0 {
		name = name[:comma]
	}
	field = it.cfgValue.Field(it.i)
	return
}

func configureFindFieldByName(conf *config.Config, name string) reflect.Value {
	it := iterateConfiguration(conf)
	for it.Next() {
		fieldName, field := it.Field()
		if fieldName != "" && fieldName == name {
			return field
		}
	}
	return reflect.Value{}
}

func configureList(w io.Writer, conf *config.Config) error {
	tw := new(tabwriter.Writer)
	tw.Init(w, 0, 8, 1, ' ', 0)

	it := iterateConfiguration(conf)
	for it.Next() {
		fieldName, field := it.Field()
		if fieldName == "" {
			continue
		}

		if field.Kind() == reflect.Ptr {
			if !field.IsNil() {
				fmt.Fprintf(tw, "%s\t%v\n", fieldName, field.Elem())
			} else {
				fmt.Fprintf(tw, "%s\t<not defined>\n", fieldName)
			}
		} else {
			fmt.Fprintf(tw, "%s\t%v\n", fieldName, field)
		}
	}
	return tw.Flush()
}

func configureSet(conf *config.Config, cfgname, rest string) error {
	field := configureFindFieldByName(conf, cfgname)
	if !field.IsValid() || !field.CanSet() {
		return fmt.Errorf("%q is not a configuration parameter", cfgname)
	}

	simpleArg := func(typ reflect.Type) (reflect.Value, error) {
		switch typ.Kind() {
		case reflect.Bool:
			v, err := strconv.ParseBool(rest)
			if err != nil {
				return reflect.Value{}, fmt.Errorf("argument to %q must be true or false", cfgname)
			}
			return reflect.ValueOf(&v), nil
		case reflect.String:
			return reflect.ValueOf(&rest), nil
		default:
			return reflect.Value{}, fmt.Errorf("unsupported type for configuration key %q", cfgname)
		}
	}

	if field.Kind() == reflect.Ptr {
		if rest == "auto" {
			field.Set(reflect.Zero(field.Type()))
			return nil
		}
		val, err := simpleArg(field.Type().Elem())
		if err != nil {
			return err
		}
		field.Set(val)
	} else {
		val, err := simpleArg(field.Type())
		if err != nil {
			return err
		}
		field.Set(val.Elem())
	}
	return conf.Validate()
}

func configCmd(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		if p := conf.Path(); p != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "# %s\n", p)
		}
		return configureList(cmd.OutOrStdout(), conf)
	}
	if err := configureSet(conf, args[0], args[1]); err != nil {
		return err
	}
	return config.SaveConfig(conf)
}
