package document

import "github.com/mohae/deepcopy"

func copyMap(m map[string]interface{}) map[string]interface{} {
	if m == nil {
		return nil
	}
	return deepcopy.Copy(m).(map[string]interface{})
}

func copySlice(s []interface{}) []interface{} {
	if s == nil {
		return nil
	}
	return deepcopy.Copy(s).([]interface{})
}
