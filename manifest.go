package main

import (
	"io/ioutil"
	"os"

	"gopkg.in/yaml.v2"
)

const manifestName = "pasgo.yaml"

type pasModule struct {
	Program string `yaml:"Program"`
}

func readManifest() (pasModule, error) {
	var doc pasModule

	data, err := ioutil.ReadFile(manifestName)
	if err != nil {
		return doc, err
	}

	err = yaml.Unmarshal(data, &doc)
	return doc, err
}

func writeManifest(doc pasModule) error {
	out, err := yaml.Marshal(doc)
	if err != nil {
		return err
	}

	fi, err := os.Create(manifestName)
	if err != nil {
		return err
	}
	defer fi.Close()

	_, err = fi.Write(out)
	return err
}
