package driver

var IndexQueries = []string{
	"CREATE INDEX ON :CausalNode(id);",
	"CREATE INDEX ON :CausalNode(name);",
}

const (
	GetCausalLinksQuery = `
		MATCH (t:CausalNode)-[:CAUSES]->(r:CausalNode)
		RETURN t.id AS trigger_id, r.id AS result_id
		ORDER BY trigger_id, result_id
	`

	GetCausalLinkQuery = `
		MATCH (t:CausalNode {id: $trigger_id})-[e:CAUSES]->(r:CausalNode {id: $result_id})
		RETURN e.uuid AS uuid, t.name AS trigger_name, r.name AS result_name,
			e.approval_token AS approval_token, e.created_at AS created_at
	`

	SaveCausalLinkQuery = `
		MERGE (t:CausalNode {id: $trigger_id})
		ON CREATE SET t.name = $trigger_name
		MERGE (r:CausalNode {id: $result_id})
		ON CREATE SET r.name = $result_name
		MERGE (t)-[e:CAUSES]->(r)
		ON CREATE SET e.uuid = $uuid,
			e.created_at = $created_at,
			e.approval_token = $approval_token
		RETURN e.uuid AS uuid
	`
)
