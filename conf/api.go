// Copyright (c) 2015-2021, NVIDIA CORPORATION.
// SPDX-License-Identifier: Apache-2.0

// Package conf provides configuration maps loaded from "Section.Option=Value"
// strings and from .INI/.conf style files.
//
// A ConfMap is accessed via confMap[sectionName][optionName][optionValueIndex]
// or via the FetchOptionValueXxx() methods below.
package conf

import (
	"fmt"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/spf13/afero"
)

type ConfMapOption []string
type ConfMapSection map[string]ConfMapOption
type ConfMap map[string]ConfMapSection

// MakeConfMap returns an newly created empty ConfMap
func MakeConfMap() (confMap ConfMap) {
	confMap = make(ConfMap)
	return
}

// MakeConfMapFromStrings returns a newly created ConfMap loaded with the contents specified in confStrings
func MakeConfMapFromStrings(confStrings []string) (confMap ConfMap, err error) {
	confMap = MakeConfMap()
	err = confMap.UpdateFromStrings(confStrings)
	if nil != err {
		err = fmt.Errorf("error building confMap from conf strings: %v", err)
	}
	return
}

// MakeConfMapFromFile returns a newly created ConfMap loaded with the contents of the confFilePath-specified file on fs
func MakeConfMapFromFile(fs afero.Fs, confFilePath string) (confMap ConfMap, err error) {
	confMap = MakeConfMap()
	err = confMap.UpdateFromFile(fs, confFilePath)
	return
}

// A string to load looks like:
//
//	<section_name_0>.<option_name_0> =
//	<section_name_1>.<option_name_1> : <value_1>
//	<section_name_2>.<option_name_2> = <value_2>, <value_3>
//	<section_name_3>.<option_name_3> : <value_4> <value_5>,<value_6>
//
// A file to load looks like:
//
//	# A comment on it's own line starting with '#'
//	; A comment on it's own line starting with ';'
//
//	[<section_name_1>]          ; A comment at the end of a line
//	<option_name_0> :
//	<option_name_1> = <value_1> # A comment at the end of a line
//
//	.include <included .conf path, relative to the including file>

const (
	assignment   = "([ \t]*[=:][ \t]*)"
	dot          = "(\\.)"
	separator    = "([ \t]+|([ \t]*,[ \t]*))"
	token        = "(([0-9A-Za-z_\\*\\-/:\\.\\[\\]]+)\\$?)"
	valueList    = "(" + token + "(" + separator + token + ")*)?"
	whiteSpace   = "([ \t]+)"
	sectionToken = "([0-9A-Za-z_\\-/:\\.]+)"
)

var (
	stringRE        = regexp.MustCompile("\\A" + token + dot + token + assignment + valueList + "\\z")
	sectionHeaderRE = regexp.MustCompile("\\A\\[" + sectionToken + "\\]\\z")
	optionLineRE    = regexp.MustCompile("\\A" + token + assignment + valueList + "\\z")
	includeLineRE   = regexp.MustCompile("\\A\\.include" + whiteSpace + token + "\\z")

	dotRE        = regexp.MustCompile(dot)
	assignmentRE = regexp.MustCompile(assignment)
	separatorRE  = regexp.MustCompile(separator)
	whiteSpaceRE = regexp.MustCompile(whiteSpace)
)

func splitOptionValues(optionValues string) (optionValuesSplit []string) {
	if "" == optionValues {
		return []string{}
	}
	return separatorRE.Split(optionValues, -1)
}

func (confMap ConfMap) setOption(sectionName string, optionName string, optionValues []string) {
	section, found := confMap[sectionName]
	if !found {
		section = make(ConfMapSection)
		confMap[sectionName] = section
	}
	section[optionName] = optionValues
}

// UpdateFromString modifies a pre-existing ConfMap based on an update
// specified in confString (e.g., from an extra command-line argument)
func (confMap ConfMap) UpdateFromString(confString string) (err error) {
	confStringTrimmed := strings.Trim(confString, " \t")

	if 0 == len(confStringTrimmed) {
		err = fmt.Errorf("trimmed confString: \"%v\" was found to be empty", confString)
		return
	}

	if !stringRE.MatchString(confStringTrimmed) {
		err = fmt.Errorf("malformed confString: \"%v\"", confString)
		return
	}

	sectionNameOptionPayload := dotRE.Split(confStringTrimmed, 2)
	optionNameOptionValues := assignmentRE.Split(sectionNameOptionPayload[1], 2)

	confMap.setOption(sectionNameOptionPayload[0], optionNameOptionValues[0], splitOptionValues(optionNameOptionValues[1]))

	return
}

// UpdateFromStrings applies UpdateFromString() to each of confStrings in order
func (confMap ConfMap) UpdateFromStrings(confStrings []string) (err error) {
	for _, confString := range confStrings {
		err = confMap.UpdateFromString(confString)
		if nil != err {
			return
		}
	}
	return
}

// UpdateFromFile modifies a pre-existing ConfMap based on updates specified in confFilePath on fs
func (confMap ConfMap) UpdateFromFile(fs afero.Fs, confFilePath string) (err error) {
	var (
		confFileBytes      []byte
		currentSectionName string
		line               string
		lineNumber         int
		lines              []string
	)

	confFileBytes, err = afero.ReadFile(fs, confFilePath)
	if nil != err {
		return
	}

	if !utf8.Valid(confFileBytes) {
		err = fmt.Errorf("file %v contained invalid UTF-8", confFilePath)
		return
	}

	if (0 < len(confFileBytes)) && ('\n' != confFileBytes[len(confFileBytes)-1]) {
		err = fmt.Errorf("file %v did not end in a '\\n' character", confFilePath)
		return
	}

	lines = strings.Split(string(confFileBytes), "\n")

	for lineNumber, line = range lines {
		line = strings.SplitN(line, ";", 2)[0]
		line = strings.SplitN(line, "#", 2)[0]
		line = strings.Trim(line, " \t")

		if 0 == len(line) {
			continue
		}

		switch {
		case includeLineRE.MatchString(line):
			nestedConfFilePath := whiteSpaceRE.Split(line, 2)[1]
			if !filepath.IsAbs(nestedConfFilePath) {
				nestedConfFilePath = filepath.Join(filepath.Dir(confFilePath), nestedConfFilePath)
			}

			err = confMap.UpdateFromFile(fs, nestedConfFilePath)
			if nil != err {
				return
			}

			// Options following an .include must re-establish their Section
			currentSectionName = ""
		case sectionHeaderRE.MatchString(line):
			currentSectionName = sectionHeaderRE.FindStringSubmatch(line)[1]
		default:
			if "" == currentSectionName {
				err = fmt.Errorf("file %v line %v: option outside of any Section", confFilePath, lineNumber+1)
				return
			}
			if !optionLineRE.MatchString(line) {
				err = fmt.Errorf("file %v line %v: malformed line '%v'", confFilePath, lineNumber+1, line)
				return
			}

			optionNameOptionValues := assignmentRE.Split(line, 2)

			confMap.setOption(currentSectionName, optionNameOptionValues[0], splitOptionValues(optionNameOptionValues[1]))
		}
	}

	return
}

// FetchOptionValueStringSlice returns [sectionName]optionName's string values
func (confMap ConfMap) FetchOptionValueStringSlice(sectionName string, optionName string) (optionValue []string, err error) {
	optionValue = []string{}

	section, ok := confMap[sectionName]
	if !ok {
		err = fmt.Errorf("[%v] missing", sectionName)
		return
	}

	option, ok := section[optionName]
	if !ok {
		err = fmt.Errorf("[%v]%v missing", sectionName, optionName)
		return
	}

	optionValue = option

	return
}

// FetchOptionValueString returns [sectionName]optionName's single string value
func (confMap ConfMap) FetchOptionValueString(sectionName string, optionName string) (optionValue string, err error) {
	optionValueSlice, err := confMap.FetchOptionValueStringSlice(sectionName, optionName)
	if nil != err {
		return
	}

	if 1 != len(optionValueSlice) {
		err = fmt.Errorf("[%v]%v must be single-valued", sectionName, optionName)
		return
	}

	optionValue = optionValueSlice[0]

	return
}

// FetchOptionValueBool returns [sectionName]optionName's single string value converted to a bool
func (confMap ConfMap) FetchOptionValueBool(sectionName string, optionName string) (optionValue bool, err error) {
	optionValueString, err := confMap.FetchOptionValueString(sectionName, optionName)
	if nil != err {
		return
	}

	switch strings.ToLower(optionValueString) {
	case "yes", "on", "true":
		optionValue = true
	case "no", "off", "false":
		optionValue = false
	default:
		err = fmt.Errorf("[%v]%v couldn't interpret %q as boolean (expected one of 'true'/'false'/'yes'/'no'/'on'/'off')", sectionName, optionName, optionValueString)
	}

	return
}

// FetchOptionValueUint64 returns [sectionName]optionName's single string value converted to a uint64
func (confMap ConfMap) FetchOptionValueUint64(sectionName string, optionName string) (optionValue uint64, err error) {
	optionValueString, err := confMap.FetchOptionValueString(sectionName, optionName)
	if nil != err {
		return
	}

	optionValue, err = strconv.ParseUint(optionValueString, 10, 64)
	if nil != err {
		err = fmt.Errorf("[%v]%v strconv.ParseUint() error: %v", sectionName, optionName, err)
	}

	return
}

// FetchOptionValueDuration returns [sectionName]optionName's single string value converted to a time.Duration
//
// A value without a unit suffix is taken to be in seconds (e.g. "1.5" == "1.5s").
func (confMap ConfMap) FetchOptionValueDuration(sectionName string, optionName string) (optionValue time.Duration, err error) {
	optionValueString, err := confMap.FetchOptionValueString(sectionName, optionName)
	if nil != err {
		return
	}

	if _, parseErr := strconv.ParseFloat(optionValueString, 64); nil == parseErr {
		optionValueString += "s"
	}

	optionValue, err = time.ParseDuration(optionValueString)
	if nil != err {
		err = fmt.Errorf("[%v]%v time.ParseDuration() error: %v", sectionName, optionName, err)
	}

	return
}
