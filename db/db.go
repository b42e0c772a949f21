package db

import (
	"fmt"

	"github.com/jsphweid/cadence/constants"
	"github.com/jsphweid/cadence/model"
	"github.com/jsphweid/cadence/util"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
)

// GetPieceMetadatas looks up piece metadata (title, composer, key hint).
// Names are fetched in batches of MaxMetadataBatch. Missing pieces are
// simply absent from the result.
func GetPieceMetadatas(endpoint, table string, names []string) (map[string]model.PieceMetadata, error) {
	res := make(map[string]model.PieceMetadata)
	if len(names) == 0 {
		return res, nil
	}

	sess, err := session.NewSession(&aws.Config{
		Region:   aws.String("localhost"),
		Endpoint: aws.String(endpoint),
	})
	if err != nil {
		return nil, fmt.Errorf("could not create metadata session: %w", err)
	}
	client := dynamodb.New(sess)

	for start := 0; start < len(names); start += constants.MaxMetadataBatch {
		batch := names[start:util.Min(start+constants.MaxMetadataBatch, len(names))]

		var keys []map[string]*dynamodb.AttributeValue
		for _, name := range batch {
			keys = append(keys, map[string]*dynamodb.AttributeValue{
				"PK": {S: aws.String(name)},
			})
		}

		input := &dynamodb.BatchGetItemInput{
			RequestItems: map[string]*dynamodb.KeysAndAttributes{
				table: {Keys: keys},
			},
		}
		dbres, err := client.BatchGetItem(input)
		if err != nil {
			return nil, fmt.Errorf("metadata lookup failed: %w", err)
		}

		for _, v := range dbres.Responses[table] {
			var m model.PieceMetadata
			if v["Title"] != nil && v["Title"].S != nil {
				m.Title = *v["Title"].S
			}
			if v["Composer"] != nil && v["Composer"].S != nil {
				m.Composer = *v["Composer"].S
			}
			if v["Key"] != nil && v["Key"].S != nil {
				m.Key = *v["Key"].S
			}
			res[*v["PK"].S] = m
		}
	}

	return res, nil
}
